// Package registry keeps track of every file of a book while it is open for
// editing. It owns the staging tree, creates the typed resources for added
// files, keeps filenames and identifiers unique and answers queries under
// concurrent access.
package registry

import (
	"emperror.dev/errors"
	"github.com/google/uuid"
	"github.com/je4/utils/v2/pkg/checksum"
	"github.com/je4/utils/v2/pkg/zLogger"
	"github.com/ocfl-archive/gobook/pkg/naming"
	"github.com/ocfl-archive/gobook/pkg/resource"
	"github.com/ocfl-archive/gobook/pkg/staging"
	"os"
	"path/filepath"
	"sync"
)

// NoReadingOrder is returned by HighestReadingOrder if there is no markup.
const NoReadingOrder = -1

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

type Options struct {
	// TempDir is the parent of the staging tree. Empty means os.TempDir().
	TempDir string
	// Digest is computed for every staged file. Empty disables digests.
	Digest checksum.DigestAlgorithm
	// Sanitize slugifies incoming filenames before uniqueness resolution.
	Sanitize bool
	// DeleteOnRemove deletes the staged file when a resource is removed.
	DeleteOnRemove bool
	// KeepStaging leaves the staging tree on disk after Close.
	KeepStaging bool
	Logger      zLogger.ZLogger
}

type Registry struct {
	lock      sync.RWMutex
	layout    *staging.Layout
	resources map[string]resource.Resource
	opf       *resource.OPFResource
	ncx       *resource.NCXResource
	options   Options
	logger    zLogger.ZLogger
}

// New creates the staging tree and the infrastructure singletons.
func New(options *Options) (*Registry, error) {
	if options == nil || options.Logger == nil {
		return nil, errors.New("registry needs options with a logger")
	}
	if options.Digest != "" {
		if _, err := checksum.GetHash(options.Digest); err != nil {
			return nil, errors.Wrapf(err, "invalid digest algorithm '%s'", options.Digest)
		}
	}
	reg := &Registry{
		layout:    staging.NewLayout(options.TempDir, options.Logger),
		resources: map[string]resource.Resource{},
		options:   *options,
		logger:    options.Logger,
	}
	if err := reg.layout.Initialize(); err != nil {
		return nil, newError(ErrIOFailure, err, "cannot initialize staging tree")
	}
	if err := reg.createInfrastructure(); err != nil {
		if err2 := reg.layout.Remove(); err2 != nil {
			reg.logger.Error().Err(err2).Msg("cannot clean up staging tree")
		}
		return nil, err
	}
	return reg, nil
}

func (reg *Registry) createInfrastructure() error {
	containerPath, _ := reg.layout.InfrastructurePath(staging.ContainerFilename)
	if err := os.WriteFile(containerPath, []byte(containerXML), 0644); err != nil {
		return newError(ErrIOFailure, err, "cannot write '%s'", containerPath)
	}

	bookID := uuid.NewString()
	ncxPath, _ := reg.layout.InfrastructurePath(staging.NavigationFilename)
	reg.ncx = resource.NewNCXResource(naming.NewIdentifier(), ncxPath, bookID)
	if err := reg.ncx.WriteDefault(); err != nil {
		return newError(ErrIOFailure, err, "cannot create navigation file")
	}

	opfPath, _ := reg.layout.InfrastructurePath(staging.ManifestFilename)
	reg.opf = resource.NewOPFResource(naming.NewIdentifier(), opfPath, bookID)
	if err := reg.opf.Save(reg.ncx); err != nil {
		return newError(ErrIOFailure, err, "cannot create manifest file")
	}

	reg.resources[reg.opf.Identifier()] = reg.opf
	reg.resources[reg.ncx.Identifier()] = reg.ncx
	return nil
}

// AddInfrastructureFile copies source to the fixed location of the reserved
// infrastructure file name, replacing the current one.
func (reg *Registry) AddInfrastructureFile(source, name string) error {
	dest, ok := reg.layout.InfrastructurePath(name)
	if !ok {
		return newError(ErrInvalidInfraName, nil, "'%s'", name)
	}

	reg.lock.Lock()
	defer reg.lock.Unlock()

	digest, err := copyFile(source, dest, reg.options.Digest)
	if err != nil {
		reg.logger.Error().Err(err).Msgf("cannot add infrastructure file '%s'", name)
		return err
	}
	switch name {
	case staging.ManifestFilename:
		reg.opf.Relocate(dest)
		reg.opf.SetDigest(digest)
	case staging.NavigationFilename:
		reg.ncx.Relocate(dest)
		reg.ncx.SetDigest(digest)
	}
	reg.logger.Debug().Msgf("infrastructure file '%s' replaced by '%s'", name, source)
	return nil
}

type contentOptions struct {
	readingOrder int
	semantic     map[string]string
}

type ContentOption func(*contentOptions)

// WithReadingOrder sets the position of a markup resource in the spine.
func WithReadingOrder(order int) ContentOption {
	return func(o *contentOptions) { o.readingOrder = order }
}

// WithSemanticInformation attaches key/value metadata, e.g. a cover marker.
func WithSemanticInformation(semantic map[string]string) ContentOption {
	return func(o *contentOptions) { o.semantic = semantic }
}

// AddContentFile copies source into the staging subfolder matching its
// extension under a registry wide unique filename and registers the new
// resource. The whole sequence runs under the write lock.
func (reg *Registry) AddContentFile(source string, opts ...ContentOption) (resource.Resource, error) {
	o := &contentOptions{readingOrder: NoReadingOrder}
	for _, opt := range opts {
		opt(o)
	}

	filename := filepath.Base(source)
	if reg.options.Sanitize {
		filename = naming.Sanitize(filename)
	}
	kind := resource.KindForExtension(resource.Extension(filename))
	folder := staging.FolderForKind(kind)

	reg.lock.Lock()
	defer reg.lock.Unlock()

	folderPath := reg.layout.PathFor(folder)
	filename = reg.uniqueFilename(filename, folderPath, reg.usedFilenames())
	dest := filepath.Join(folderPath, filename)
	digest, err := copyFile(source, dest, reg.options.Digest)
	if err != nil {
		reg.logger.Error().Err(err).Msgf("cannot add content file '%s'", source)
		return nil, err
	}

	res := resource.New(kind, naming.NewIdentifier(), dest, o.readingOrder, o.semantic)
	res.SetDigest(digest)
	res.Subscribe(reg.onDeleted)
	reg.resources[res.Identifier()] = res
	reg.opf.AddResource(res)

	reg.logger.Debug().Msgf("added %s resource '%s' as '%s' [%s]", kind, source, dest, res.Identifier())
	return res, nil
}

// Remove erases res from the registry. It is a no-op for unknown resources.
// The singletons cannot be removed.
func (reg *Registry) Remove(res resource.Resource) error {
	if res == nil {
		return nil
	}
	reg.lock.Lock()
	defer reg.lock.Unlock()

	stored, ok := reg.resources[res.Identifier()]
	if !ok || stored != res {
		return nil
	}
	if res.Kind().IsInfrastructure() {
		return newError(ErrInfrastructureRemoval, nil, "'%s'", res.Filename())
	}
	if reg.options.DeleteOnRemove {
		if err := os.Remove(res.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return newError(ErrIOFailure, err, "cannot delete '%s'", res.Path())
		}
	}
	delete(reg.resources, res.Identifier())
	reg.opf.RemoveResource(res)
	reg.logger.Debug().Msgf("removed '%s' [%s]", res.Filename(), res.Identifier())
	return nil
}

func (reg *Registry) onDeleted(res resource.Resource) {
	if err := reg.Remove(res); err != nil {
		reg.logger.Error().Err(err).Msgf("cannot remove deleted resource '%s'", res.Identifier())
	}
}

// Rename gives res a new filename within its folder. The name is resolved
// against all other resources so paths stay unique.
func (reg *Registry) Rename(res resource.Resource, filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", errors.Errorf("invalid filename '%s'", filename)
	}
	reg.lock.Lock()
	defer reg.lock.Unlock()

	if stored, ok := reg.resources[res.Identifier()]; !ok || stored != res {
		return "", newError(ErrNotFound, nil, "'%s'", res.Identifier())
	}
	if res.Kind().IsInfrastructure() {
		return "", errors.Errorf("infrastructure file '%s' has a reserved name", res.Filename())
	}
	if reg.options.Sanitize {
		filename = naming.Sanitize(filename)
	}
	if filename == res.Filename() {
		return filename, nil
	}
	used := reg.usedFilenames()
	delete(used, res.Filename())
	oldPath := res.Path()
	filename = reg.uniqueFilename(filename, filepath.Dir(oldPath), used)
	newPath := filepath.Join(filepath.Dir(oldPath), filename)
	if err := os.Rename(oldPath, newPath); err != nil {
		return "", newError(ErrIOFailure, err, "cannot rename '%s' to '%s'", oldPath, newPath)
	}
	res.Relocate(newPath)
	reg.logger.Debug().Msgf("renamed '%s' to '%s' [%s]", oldPath, newPath, res.Identifier())
	return filename, nil
}

// Close tears the registry down and removes the staging tree unless
// KeepStaging is set.
func (reg *Registry) Close() error {
	reg.lock.Lock()
	defer reg.lock.Unlock()
	reg.resources = map[string]resource.Resource{}
	if reg.options.KeepStaging {
		reg.logger.Info().Msgf("keeping staging tree '%s'", reg.layout.Root())
		return nil
	}
	if err := reg.layout.Remove(); err != nil {
		return newError(ErrIOFailure, err, "cannot remove staging tree")
	}
	return nil
}

// uniqueFilename resolves name against the registered filenames and the files
// already present in folder, e.g. staged files of removed resources.
func (reg *Registry) uniqueFilename(name, folder string, used map[string]bool) string {
	return naming.UniqueFilename(name, func(name string) bool {
		if used[name] {
			return true
		}
		_, err := os.Lstat(filepath.Join(folder, name))
		return err == nil
	})
}

// usedFilenames must be called with the lock held.
func (reg *Registry) usedFilenames() map[string]bool {
	used := make(map[string]bool, len(reg.resources))
	for _, res := range reg.resources {
		used[res.Filename()] = true
	}
	return used
}

package registry

import (
	"emperror.dev/errors"
	"github.com/ocfl-archive/gobook/pkg/naming"
	"github.com/ocfl-archive/gobook/pkg/resource"
	"github.com/ocfl-archive/gobook/pkg/staging"
	"golang.org/x/exp/slices"
	"io/fs"
	"path/filepath"
)

func sortResources[T resource.Resource](list []T) {
	slices.SortFunc(list, func(a, b T) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
}

// HighestReadingOrder returns the highest reading order of all markup
// resources or NoReadingOrder.
func (reg *Registry) HighestReadingOrder() int {
	reg.lock.RLock()
	defer reg.lock.RUnlock()
	highest := NoReadingOrder
	for _, res := range reg.resources {
		if res.Kind() != resource.KindMarkup {
			continue
		}
		if o, ok := res.(resource.Ordered); ok && o.ReadingOrder() > highest {
			highest = o.ReadingOrder()
		}
	}
	return highest
}

// UniqueFilenameVersion returns name if no resource uses it, otherwise the
// first numbered variant which is free.
func (reg *Registry) UniqueFilenameVersion(name string) string {
	reg.lock.RLock()
	defer reg.lock.RUnlock()
	return naming.UniqueFilenameIn(name, reg.usedFilenames())
}

// SortedContentFilepaths lists the paths of all content resources relative
// to the content root in ascending order.
func (reg *Registry) SortedContentFilepaths() []string {
	reg.lock.RLock()
	defer reg.lock.RUnlock()
	paths := make([]string, 0, len(reg.resources))
	for _, res := range reg.resources {
		if res.Kind().IsInfrastructure() {
			continue
		}
		rel, err := reg.layout.ContentRelative(res.Path())
		if err != nil {
			// cannot happen for staged files
			reg.logger.Error().Err(err).Msgf("resource '%s' outside content root", res.Identifier())
			continue
		}
		paths = append(paths, rel)
	}
	slices.Sort(paths)
	return paths
}

// AllResources returns every resource including the singletons in no
// particular order.
func (reg *Registry) AllResources() []resource.Resource {
	reg.lock.RLock()
	defer reg.lock.RUnlock()
	list := make([]resource.Resource, 0, len(reg.resources))
	for _, res := range reg.resources {
		list = append(list, res)
	}
	return list
}

// ResourcesOfKind is a full scan filtered by the variant tag.
func (reg *Registry) ResourcesOfKind(kind resource.Kind, sorted bool) []resource.Resource {
	reg.lock.RLock()
	list := []resource.Resource{}
	for _, res := range reg.resources {
		if res.Kind() == kind {
			list = append(list, res)
		}
	}
	reg.lock.RUnlock()
	if sorted {
		sortResources(list)
	}
	return list
}

// ResourcesOfType returns all resources of the variant T, e.g.
// *resource.ImageResource. Pointer variants are matched by their kind tag, an
// interface T by type assertion alone.
func ResourcesOfType[T resource.Resource](reg *Registry, sorted bool) []T {
	var zero T
	byKind := any(zero) != nil
	var kind resource.Kind
	if byKind {
		kind = zero.Kind()
	}
	reg.lock.RLock()
	list := []T{}
	for _, res := range reg.resources {
		if byKind && res.Kind() != kind {
			continue
		}
		if typed, ok := res.(T); ok {
			list = append(list, typed)
		}
	}
	reg.lock.RUnlock()
	if sorted {
		sortResources(list)
	}
	return list
}

// ByIdentifier is the O(1) lookup.
func (reg *Registry) ByIdentifier(id string) (resource.Resource, error) {
	reg.lock.RLock()
	defer reg.lock.RUnlock()
	res, ok := reg.resources[id]
	if !ok {
		return nil, newError(ErrNotFound, nil, "'%s'", id)
	}
	return res, nil
}

// ByFilename scans all resources. Filenames change, identifiers do not, so
// prefer ByIdentifier on hot paths.
func (reg *Registry) ByFilename(name string) (resource.Resource, error) {
	reg.lock.RLock()
	defer reg.lock.RUnlock()
	for _, res := range reg.resources {
		if res.Filename() == name {
			return res, nil
		}
	}
	return nil, newError(ErrResourceNotFound, nil, "'%s'", name)
}

func (reg *Registry) Manifest() *resource.OPFResource { return reg.opf }

func (reg *Registry) Navigation() *resource.NCXResource { return reg.ncx }

// AllFilenames lists the current filename of every resource.
func (reg *Registry) AllFilenames() []string {
	reg.lock.RLock()
	defer reg.lock.RUnlock()
	names := make([]string, 0, len(reg.resources))
	for _, res := range reg.resources {
		names = append(names, res.Filename())
	}
	return names
}

// PathFor returns the absolute path of a staging subfolder.
func (reg *Registry) PathFor(folder staging.Folder) string {
	return reg.layout.PathFor(folder)
}

// StagingRoot returns the absolute path of the staging tree.
func (reg *Registry) StagingRoot() string {
	return reg.layout.Root()
}

// Len returns the number of resources including the singletons.
func (reg *Registry) Len() int {
	reg.lock.RLock()
	defer reg.lock.RUnlock()
	return len(reg.resources)
}

// Orphans walks the staging tree and lists all files, relative to the
// staging root, which no resource points to.
func (reg *Registry) Orphans() ([]string, error) {
	fsys, err := reg.layout.FS()
	if err != nil {
		return nil, newError(ErrIOFailure, err, "cannot open staging tree")
	}
	reg.lock.RLock()
	known := map[string]bool{
		staging.MetaInfFolderName + "/" + staging.ContainerFilename: true,
	}
	for _, res := range reg.resources {
		rel, err := relativeSlash(reg.layout.Root(), res.Path())
		if err == nil {
			known[rel] = true
		}
	}
	reg.lock.RUnlock()

	orphans := []string{}
	if err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}
		if d.IsDir() {
			return nil
		}
		if !known[path] {
			orphans = append(orphans, path)
		}
		return nil
	}); err != nil {
		return nil, newError(ErrIOFailure, err, "cannot walk staging tree")
	}
	slices.Sort(orphans)
	return orphans, nil
}

func relativeSlash(base, path string) (string, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return filepath.ToSlash(rel), nil
}

package staging

import (
	"emperror.dev/errors"
	"github.com/je4/filesystem/v3/pkg/osfsrw"
	"github.com/je4/utils/v2/pkg/zLogger"
	"github.com/ocfl-archive/gobook/pkg/resource"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type Folder int

const (
	FolderMain Folder = iota
	FolderMetaInf
	FolderContent
	FolderImages
	FolderFonts
	FolderText
	FolderStyles
	FolderMisc
)

// reserved names of the container format, case sensitive
const (
	MetaInfFolderName = "META-INF"
	ContentFolderName = "OEBPS"
	ImageFolderName   = "Images"
	FontFolderName    = "Fonts"
	TextFolderName    = "Text"
	StyleFolderName   = "Styles"
	MiscFolderName    = "Misc"

	ManifestFilename   = "content.opf"
	NavigationFilename = "toc.ncx"
	ContainerFilename  = "container.xml"
)

var folderPaths = map[Folder]string{
	FolderMain:    "",
	FolderMetaInf: MetaInfFolderName,
	FolderContent: ContentFolderName,
	FolderImages:  ContentFolderName + "/" + ImageFolderName,
	FolderFonts:   ContentFolderName + "/" + FontFolderName,
	FolderText:    ContentFolderName + "/" + TextFolderName,
	FolderStyles:  ContentFolderName + "/" + StyleFolderName,
	FolderMisc:    ContentFolderName + "/" + MiscFolderName,
}

var folderNames = map[Folder]string{
	FolderMain:    "main",
	FolderMetaInf: "meta-inf",
	FolderContent: "content",
	FolderImages:  "images",
	FolderFonts:   "fonts",
	FolderText:    "text",
	FolderStyles:  "styles",
	FolderMisc:    "misc",
}

func (f Folder) String() string {
	if name, ok := folderNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFolder resolves a folder by its name as returned by String.
func ParseFolder(name string) (Folder, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for folder, n := range folderNames {
		if n == name {
			return folder, true
		}
	}
	return 0, false
}

// infrastructure files and their fixed location
var infrastructureFolders = map[string]Folder{
	ManifestFilename:   FolderContent,
	NavigationFilename: FolderContent,
	ContainerFilename:  FolderMetaInf,
}

// FolderForKind returns the subfolder holding resources of kind.
func FolderForKind(kind resource.Kind) Folder {
	switch kind {
	case resource.KindMarkup:
		return FolderText
	case resource.KindImage:
		return FolderImages
	case resource.KindStylesheet, resource.KindStyleTemplate:
		return FolderStyles
	case resource.KindFont:
		return FolderFonts
	case resource.KindManifest, resource.KindNavigation:
		return FolderContent
	default:
		return FolderMisc
	}
}

// DestinationFor maps a file extension to its subfolder. Unknown extensions
// go to the misc folder.
func DestinationFor(ext string) Folder {
	return FolderForKind(resource.KindForExtension(ext))
}

// IsInfrastructureName reports whether name is one of the reserved
// infrastructure file names.
func IsInfrastructureName(name string) bool {
	_, ok := infrastructureFolders[name]
	return ok
}

// Layout owns a private staging directory tree.
type Layout struct {
	parent string
	root   string
	logger zLogger.ZLogger
}

// NewLayout prepares a layout whose root will be created below parent.
// An empty parent means the system temp directory.
func NewLayout(parent string, logger zLogger.ZLogger) *Layout {
	if parent == "" {
		parent = os.TempDir()
	}
	return &Layout{parent: parent, logger: logger}
}

// Initialize creates the root directory and all subfolders. It must be
// called exactly once.
func (l *Layout) Initialize() error {
	if l.root != "" {
		return errors.Errorf("staging tree '%s' already initialized", l.root)
	}
	if err := os.MkdirAll(l.parent, 0755); err != nil {
		return errors.Wrapf(err, "cannot create staging parent '%s'", l.parent)
	}
	root, err := os.MkdirTemp(l.parent, "gobook-")
	if err != nil {
		return errors.Wrapf(err, "cannot create staging root in '%s'", l.parent)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errors.Wrapf(err, "cannot get absolute path of '%s'", root)
	}
	l.root = absRoot
	for _, folder := range []Folder{FolderMetaInf, FolderContent, FolderImages, FolderFonts, FolderText, FolderStyles, FolderMisc} {
		p := l.PathFor(folder)
		if err := os.MkdirAll(p, 0755); err != nil {
			return errors.Wrapf(err, "cannot create folder '%s'", p)
		}
	}
	l.logger.Debug().Msgf("staging tree created at '%s'", l.root)
	return nil
}

func (l *Layout) Root() string { return l.root }

// PathFor returns the absolute path of a subfolder.
func (l *Layout) PathFor(folder Folder) string {
	rel, ok := folderPaths[folder]
	if !ok {
		rel = folderPaths[FolderMisc]
	}
	return filepath.Join(l.root, filepath.FromSlash(rel))
}

// InfrastructurePath returns the fixed location of a reserved infrastructure
// file.
func (l *Layout) InfrastructurePath(name string) (string, bool) {
	folder, ok := infrastructureFolders[name]
	if !ok {
		return "", false
	}
	return filepath.Join(l.PathFor(folder), name), true
}

// ContentRelative returns path relative to the content root in slash form.
func (l *Layout) ContentRelative(path string) (string, error) {
	rel, err := filepath.Rel(l.PathFor(FolderContent), path)
	if err != nil {
		return "", errors.Wrapf(err, "cannot relate '%s' to content root", path)
	}
	if strings.HasPrefix(rel, "..") {
		return "", errors.Errorf("'%s' is outside of the content root", path)
	}
	return filepath.ToSlash(rel), nil
}

// FS returns a filesystem view of the staging tree for collaborators walking
// it.
func (l *Layout) FS() (fs.FS, error) {
	fsys, err := osfsrw.NewFS(l.root, true, l.logger)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create filesystem for '%s'", l.root)
	}
	return fsys, nil
}

// Remove deletes the whole staging tree.
func (l *Layout) Remove() error {
	if l.root == "" {
		return nil
	}
	if err := os.RemoveAll(l.root); err != nil {
		return errors.Wrapf(err, "cannot remove staging tree '%s'", l.root)
	}
	l.logger.Debug().Msgf("staging tree '%s' removed", l.root)
	return nil
}

package staging

import (
	"github.com/je4/utils/v2/pkg/zLogger"
	"github.com/rs/zerolog"
	"os"
	"path/filepath"
	"testing"
)

func newTestLayout(t *testing.T) *Layout {
	t.Helper()
	l := zerolog.Nop()
	var logger zLogger.ZLogger = &l
	layout := NewLayout(t.TempDir(), logger)
	if err := layout.Initialize(); err != nil {
		t.Fatalf("cannot initialize layout: %v", err)
	}
	return layout
}

func TestInitialize(t *testing.T) {
	layout := newTestLayout(t)
	if !filepath.IsAbs(layout.Root()) {
		t.Errorf("root %s is not absolute", layout.Root())
	}
	expected := map[Folder]string{
		FolderMain:    "",
		FolderMetaInf: "META-INF",
		FolderContent: "OEBPS",
		FolderImages:  "OEBPS/Images",
		FolderFonts:   "OEBPS/Fonts",
		FolderText:    "OEBPS/Text",
		FolderStyles:  "OEBPS/Styles",
		FolderMisc:    "OEBPS/Misc",
	}
	for folder, rel := range expected {
		p := layout.PathFor(folder)
		if p != filepath.Join(layout.Root(), filepath.FromSlash(rel)) {
			t.Errorf("PathFor(%s) = %s", folder, p)
		}
		fi, err := os.Stat(p)
		if err != nil {
			t.Errorf("folder %s missing: %v", folder, err)
			continue
		}
		if !fi.IsDir() {
			t.Errorf("%s is not a folder", p)
		}
	}
	if err := layout.Initialize(); err == nil {
		t.Errorf("second Initialize succeeded")
	}
}

func TestDestinationFor(t *testing.T) {
	tests := map[string]Folder{
		"xhtml": FolderText,
		"HTM":   FolderText,
		"jpg":   FolderImages,
		"svg":   FolderImages,
		"css":   FolderStyles,
		"xpgt":  FolderStyles,
		"ttf":   FolderFonts,
		"pdf":   FolderMisc,
		"":      FolderMisc,
	}
	for ext, folder := range tests {
		if f := DestinationFor(ext); f != folder {
			t.Errorf("DestinationFor(%q) = %s, expected %s", ext, f, folder)
		}
	}
}

func TestParseFolder(t *testing.T) {
	for _, folder := range []Folder{FolderMain, FolderMetaInf, FolderContent, FolderImages, FolderFonts, FolderText, FolderStyles, FolderMisc} {
		f, ok := ParseFolder(folder.String())
		if !ok || f != folder {
			t.Errorf("ParseFolder(%s) = %s, %v", folder.String(), f, ok)
		}
	}
	if _, ok := ParseFolder("videos"); ok {
		t.Errorf("unknown folder parsed")
	}
}

func TestInfrastructurePath(t *testing.T) {
	layout := newTestLayout(t)
	tests := map[string]string{
		ManifestFilename:   filepath.Join(layout.PathFor(FolderContent), "content.opf"),
		NavigationFilename: filepath.Join(layout.PathFor(FolderContent), "toc.ncx"),
		ContainerFilename:  filepath.Join(layout.PathFor(FolderMetaInf), "container.xml"),
	}
	for name, path := range tests {
		p, ok := layout.InfrastructurePath(name)
		if !ok || p != path {
			t.Errorf("InfrastructurePath(%s) = %s, %v", name, p, ok)
		}
		if !IsInfrastructureName(name) {
			t.Errorf("%s not reserved", name)
		}
	}
	for _, name := range []string{"Content.opf", "nav.xhtml", ""} {
		if _, ok := layout.InfrastructurePath(name); ok {
			t.Errorf("%q accepted as infrastructure name", name)
		}
	}
}

func TestContentRelative(t *testing.T) {
	layout := newTestLayout(t)
	rel, err := layout.ContentRelative(filepath.Join(layout.PathFor(FolderImages), "a.png"))
	if err != nil {
		t.Fatalf("cannot relate: %v", err)
	}
	if rel != "Images/a.png" {
		t.Errorf("relative path %s", rel)
	}
	if _, err := layout.ContentRelative(filepath.Join(layout.PathFor(FolderMetaInf), "container.xml")); err == nil {
		t.Errorf("path outside of content root accepted")
	}
}

func TestRemove(t *testing.T) {
	layout := newTestLayout(t)
	root := layout.Root()
	if err := os.WriteFile(filepath.Join(layout.PathFor(FolderText), "a.html"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := layout.Remove(); err != nil {
		t.Fatalf("cannot remove: %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Errorf("staging root %s still exists", root)
	}
}

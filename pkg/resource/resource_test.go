package resource

import (
	"bytes"
	"github.com/go-test/deep"
	"os"
	"path/filepath"
	"testing"
)

func TestKindForExtension(t *testing.T) {
	tests := map[string]Kind{
		"xhtml": KindMarkup,
		".HTML": KindMarkup,
		"jpeg":  KindImage,
		"PNG":   KindImage,
		"css":   KindStylesheet,
		"xpgt":  KindStyleTemplate,
		"otf":   KindFont,
		"woff2": KindFont,
		"txt":   KindMisc,
		"":      KindMisc,
		"opf":   KindMisc,
	}
	for ext, kind := range tests {
		if k := KindForExtension(ext); k != kind {
			t.Errorf("KindForExtension(%q) = %s, expected %s", ext, k, kind)
		}
	}
	if Extension("Chapter.XHTML") != "xhtml" {
		t.Errorf("Extension(Chapter.XHTML) = %s", Extension("Chapter.XHTML"))
	}
	if Extension("README") != "" {
		t.Errorf("Extension(README) = %s", Extension("README"))
	}
	if !KindManifest.IsInfrastructure() || !KindNavigation.IsInfrastructure() || KindMarkup.IsInfrastructure() {
		t.Errorf("wrong infrastructure kinds")
	}
}

func TestMiscMediaType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	res := NewMiscResource("id-1", path, nil)
	if res.MediaType() != "application/pdf" {
		t.Errorf("sniffed media type %s", res.MediaType())
	}
	missing := NewMiscResource("id-2", filepath.Join(dir, "missing"), nil)
	if missing.MediaType() != MediaTypeOctetStream {
		t.Errorf("media type of missing file %s", missing.MediaType())
	}
}

func TestHTMLLess(t *testing.T) {
	a := NewHTMLResource("a", "/x/Text/b.html", 1, nil)
	b := NewHTMLResource("b", "/x/Text/a.html", 2, nil)
	c := NewHTMLResource("c", "/x/Text/c.html", -5, nil)
	d := NewHTMLResource("d", "/x/Text/d.html", 2, nil)
	if c.ReadingOrder() != -1 {
		t.Errorf("negative reading order kept: %d", c.ReadingOrder())
	}
	if !a.Less(b) || b.Less(a) {
		t.Errorf("reading order ignored")
	}
	if !c.Less(a) {
		t.Errorf("unordered markup must come first")
	}
	if !b.Less(d) || d.Less(b) {
		t.Errorf("filename tie break failed")
	}
	img1 := NewImageResource("i1", "/x/Images/a.png", nil)
	img2 := NewImageResource("i2", "/x/Images/b.png", nil)
	if !img1.Less(img2) || img2.Less(img1) {
		t.Errorf("images not ordered by filename")
	}
}

func TestSemanticInformationCopy(t *testing.T) {
	semantic := map[string]string{"cover": "true"}
	res := NewImageResource("i", "/x/Images/cover.jpg", semantic)
	semantic["cover"] = "false"
	info := res.SemanticInformation()
	if info["cover"] != "true" {
		t.Errorf("resource shares the caller's map")
	}
	info["cover"] = "changed"
	if res.SemanticInformation()["cover"] != "true" {
		t.Errorf("resource exposes its own map")
	}
}

func TestDeleteObservers(t *testing.T) {
	res := NewCSSResource("s", "/x/Styles/s.css", nil)
	var calls []Resource
	res.Subscribe(func(r Resource) { calls = append(calls, r) })
	res.Subscribe(func(r Resource) { calls = append(calls, r) })
	res.Subscribe(nil)
	res.Delete()
	res.Delete()
	if len(calls) != 2 {
		t.Fatalf("%d observer calls, expected 2", len(calls))
	}
	for _, r := range calls {
		if r != Resource(res) {
			t.Errorf("observer got %v", r)
		}
	}
}

func TestRelocate(t *testing.T) {
	res := NewFontResource("f", "/x/Fonts/a.ttf", nil)
	res.Relocate("/x/Fonts/b.ttf")
	if res.Filename() != "b.ttf" || res.Identifier() != "f" {
		t.Errorf("relocate failed: %s %s", res.Filename(), res.Identifier())
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind Kind
		path string
	}{
		{KindMarkup, "/x/a.html"},
		{KindImage, "/x/a.png"},
		{KindStylesheet, "/x/a.css"},
		{KindStyleTemplate, "/x/a.xpgt"},
		{KindFont, "/x/a.ttf"},
		{KindMisc, "/x/a.bin"},
	}
	for _, tc := range tests {
		res := New(tc.kind, "id", tc.path, 3, nil)
		if res.Kind() != tc.kind {
			t.Errorf("New(%s) created %s", tc.kind, res.Kind())
		}
	}
	if o, ok := New(KindMarkup, "id", "/x/a.html", 3, nil).(Ordered); !ok || o.ReadingOrder() != 3 {
		t.Errorf("reading order lost")
	}
}

func TestManifest(t *testing.T) {
	dir := t.TempDir()
	content := filepath.Join(dir, "OEBPS")
	opf := NewOPFResource("opf", filepath.Join(content, "content.opf"), "book-1")
	ncx := NewNCXResource("ncx", filepath.Join(content, "toc.ncx"), "book-1")

	ch2 := NewHTMLResource("ch2", filepath.Join(content, "Text", "b.html"), 2, nil)
	ch1 := NewHTMLResource("ch1", filepath.Join(content, "Text", "c.html"), 1, nil)
	css := NewCSSResource("css", filepath.Join(content, "Styles", "a.css"), nil)
	opf.AddResource(ch2)
	opf.AddResource(ch1)
	opf.AddResource(css)
	opf.AddResource(ncx)

	expected := []ManifestItem{
		{ID: "css", Href: "Styles/a.css", MediaType: "text/css"},
		{ID: "ch2", Href: "Text/b.html", MediaType: "application/xhtml+xml"},
		{ID: "ch1", Href: "Text/c.html", MediaType: "application/xhtml+xml"},
	}
	if diff := deep.Equal(opf.Items(), expected); diff != nil {
		t.Error(diff)
	}
	if diff := deep.Equal(opf.Spine(), []string{"ch1", "ch2"}); diff != nil {
		t.Error(diff)
	}

	opf.SetTitle("A <Book>")
	data, err := opf.Render(ncx)
	if err != nil {
		t.Fatalf("cannot render: %v", err)
	}
	for _, str := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`A &lt;Book&gt;`,
		`book-1`,
		`href="toc.ncx"`,
		`toc="ncx"`,
		`idref="ch1"`,
	} {
		if !bytes.Contains(data, []byte(str)) {
			t.Errorf("manifest does not contain %s", str)
		}
	}
	if bytes.Index(data, []byte(`idref="ch1"`)) > bytes.Index(data, []byte(`idref="ch2"`)) {
		t.Errorf("spine out of order")
	}

	opf.RemoveResource(ch1)
	if diff := deep.Equal(opf.Spine(), []string{"ch2"}); diff != nil {
		t.Error(diff)
	}
	data, err = opf.Render(nil)
	if err != nil {
		t.Fatalf("cannot render: %v", err)
	}
	if bytes.Contains(data, []byte(`toc=`)) {
		t.Errorf("toc attribute without navigation")
	}
}

func TestNavigationDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toc.ncx")
	ncx := NewNCXResource("ncx", path, "book-2")
	if err := ncx.WriteDefault(); err != nil {
		t.Fatalf("cannot write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("urn:uuid:book-2")) {
		t.Errorf("book id missing")
	}
	if ncx.MediaType() != "application/x-dtbncx+xml" {
		t.Errorf("media type %s", ncx.MediaType())
	}
}

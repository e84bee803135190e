package cmd

import (
	"bytes"
	"github.com/go-test/deep"
	"github.com/je4/utils/v2/pkg/checksum"
	"github.com/je4/utils/v2/pkg/zLogger"
	"github.com/ocfl-archive/gobook/config"
	"github.com/ocfl-archive/gobook/pkg/registry"
	"github.com/ocfl-archive/gobook/pkg/resource"
	"github.com/rs/zerolog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestRegistry(t *testing.T) (*registry.Registry, zLogger.ZLogger) {
	t.Helper()
	l := zerolog.Nop()
	var logger zLogger.ZLogger = &l
	conf, err := config.LoadGOBOOKConfig(string(config.DefaultConfig))
	if err != nil {
		t.Fatalf("cannot load config: %v", err)
	}
	conf.TempDir = ""
	opts := registryOptions(conf, logger)
	opts.TempDir = t.TempDir()
	opts.Digest = checksum.DigestMD5
	reg, err := registry.New(opts)
	if err != nil {
		t.Fatalf("cannot create registry: %v", err)
	}
	t.Cleanup(func() { _ = reg.Close() })
	return reg, logger
}

func writeFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := []string{}
	for _, name := range names {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return paths
}

func TestStageFiles(t *testing.T) {
	reg, logger := newTestRegistry(t)
	files := writeFiles(t, "ch2.html", "ch1.html", "book.css", "cover.jpg")
	stageConf := &config.StageConfig{
		Title: "Test Book",
		Cover: files[3],
	}
	if err := stageFiles(reg, stageConf, files[:3], logger); err != nil {
		t.Fatalf("cannot stage: %v", err)
	}
	if reg.Manifest().Title() != "Test Book" {
		t.Errorf("title %s", reg.Manifest().Title())
	}
	cover, err := reg.ByFilename("cover.jpg")
	if err != nil {
		t.Fatalf("cover not staged: %v", err)
	}
	if cover.SemanticInformation()["cover"] != "true" {
		t.Errorf("cover not marked")
	}

	markup := registry.ResourcesOfType[*resource.HTMLResource](reg, true)
	var order []string
	for _, m := range markup {
		order = append(order, m.Filename())
	}
	if diff := deep.Equal(order, []string{"ch2.html", "ch1.html"}); diff != nil {
		t.Error(diff)
	}

	data, err := os.ReadFile(reg.Manifest().Path())
	if err != nil {
		t.Fatalf("cannot read manifest: %v", err)
	}
	if !bytes.Contains(data, []byte("Test Book")) || !bytes.Contains(data, []byte(`href="Images/cover.jpg"`)) {
		t.Errorf("manifest not written:\n%s", string(data))
	}
}

func TestStageManifestReplacement(t *testing.T) {
	reg, logger := newTestRegistry(t)
	files := writeFiles(t, "a.html", "my.opf")
	if err := stageFiles(reg, &config.StageConfig{Manifest: files[1]}, files[:1], logger); err != nil {
		t.Fatalf("cannot stage: %v", err)
	}
	data, err := os.ReadFile(reg.Manifest().Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "my.opf" {
		t.Errorf("manifest not replaced: %s", string(data))
	}
}

func TestStageMissingFile(t *testing.T) {
	reg, logger := newTestRegistry(t)
	err := stageFiles(reg, &config.StageConfig{}, []string{filepath.Join(t.TempDir(), "missing.html")}, logger)
	if err == nil {
		t.Fatalf("missing file staged")
	}
}

func TestWriteReport(t *testing.T) {
	reg, logger := newTestRegistry(t)
	files := writeFiles(t, "b.html", "a.png")
	if err := stageFiles(reg, &config.StageConfig{}, files, logger); err != nil {
		t.Fatalf("cannot stage: %v", err)
	}
	buf := &bytes.Buffer{}
	if err := writeReport(buf, reg, []string{"kinds", "files", "digests", "spine"}); err != nil {
		t.Fatalf("cannot write report: %v", err)
	}
	out := buf.String()
	for _, str := range []string{
		"[kinds]", "[files]", "[digests]", "[spine]",
		"Text/b.html", "Images/a.png", "image/png",
		"  0 b.html",
		"highest reading order: 0",
		"32d3ca5e23f4ccf1e4c8660c40e75f33  Images/a.png",
	} {
		if !strings.Contains(out, str) {
			t.Errorf("report does not contain '%s':\n%s", str, out)
		}
	}
	if err := writeReport(buf, reg, []string{"pages"}); err == nil {
		t.Errorf("unknown section accepted")
	}
}

func TestSplitInfo(t *testing.T) {
	if diff := deep.Equal(splitInfo(" Kinds, ,FILES"), []string{"kinds", "files"}); diff != nil {
		t.Error(diff)
	}
}

package naming

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"path/filepath"
	"strings"
)

const identifierPrefix = "id-"

// NewIdentifier returns a fresh random identifier. It is a valid XML name so
// it can be used as manifest item id.
func NewIdentifier() string {
	return identifierPrefix + uuid.NewString()
}

// SplitFilename separates stem and extension (including the dot).
func SplitFilename(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	stem = strings.TrimSuffix(name, ext)
	if stem == "" {
		// dot file like ".hidden"
		return name, ""
	}
	return stem, ext
}

// UniqueFilename returns candidate if taken reports false for it. Otherwise
// a numeric suffix is appended to the stem, starting with 1, and the first
// free name is returned.
func UniqueFilename(candidate string, taken func(name string) bool) string {
	if !taken(candidate) {
		return candidate
	}
	stem, ext := SplitFilename(candidate)
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s%d%s", stem, i, ext)
		if !taken(name) {
			return name
		}
	}
}

// UniqueFilenameIn resolves candidate against a set of used filenames.
func UniqueFilenameIn(candidate string, used map[string]bool) string {
	return UniqueFilename(candidate, func(name string) bool { return used[name] })
}

// Sanitize turns the stem of name into a slug and keeps the lower case
// extension.
func Sanitize(name string) string {
	stem, ext := SplitFilename(name)
	s := slug.Make(stem)
	if s == "" {
		s = "file"
	}
	return s + strings.ToLower(ext)
}

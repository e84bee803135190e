package resource

import (
	"github.com/gabriel-vasile/mimetype"
	"path/filepath"
	"strings"
)

const MediaTypeOctetStream = "application/octet-stream"

var extensionKinds = map[string]Kind{
	"xhtml": KindMarkup,
	"html":  KindMarkup,
	"htm":   KindMarkup,
	"xml":   KindMarkup,
	"jpg":   KindImage,
	"jpeg":  KindImage,
	"png":   KindImage,
	"gif":   KindImage,
	"tif":   KindImage,
	"tiff":  KindImage,
	"bmp":   KindImage,
	"svg":   KindImage,
	"webp":  KindImage,
	"css":   KindStylesheet,
	"xpgt":  KindStyleTemplate,
	"ttf":   KindFont,
	"ttc":   KindFont,
	"otf":   KindFont,
	"woff":  KindFont,
	"woff2": KindFont,
}

var extensionMediaTypes = map[string]string{
	"xhtml": "application/xhtml+xml",
	"html":  "application/xhtml+xml",
	"htm":   "application/xhtml+xml",
	"xml":   "application/xhtml+xml",
	"jpg":   "image/jpeg",
	"jpeg":  "image/jpeg",
	"png":   "image/png",
	"gif":   "image/gif",
	"tif":   "image/tiff",
	"tiff":  "image/tiff",
	"bmp":   "image/bmp",
	"svg":   "image/svg+xml",
	"webp":  "image/webp",
	"css":   "text/css",
	"xpgt":  "application/adobe-page-template+xml",
	"ttf":   "application/x-font-ttf",
	"ttc":   "application/x-font-truetype-collection",
	"otf":   "application/vnd.ms-opentype",
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"opf":   "application/oebps-package+xml",
	"ncx":   "application/x-dtbncx+xml",
}

// Extension returns the lower case extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// KindForExtension maps a file extension (with or without dot, any case)
// to its variant. Unknown extensions map to KindMisc.
func KindForExtension(ext string) Kind {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if kind, ok := extensionKinds[ext]; ok {
		return kind
	}
	return KindMisc
}

// MediaTypeForExtension returns the registered media type of an extension or
// an empty string.
func MediaTypeForExtension(ext string) string {
	return extensionMediaTypes[strings.ToLower(strings.TrimPrefix(ext, "."))]
}

// detectMediaType sniffs the content of a staged file.
func detectMediaType(path string) string {
	if mt := MediaTypeForExtension(Extension(path)); mt != "" {
		return mt
	}
	mime, err := mimetype.DetectFile(path)
	if err != nil || mime == nil {
		return MediaTypeOctetStream
	}
	return mime.String()
}

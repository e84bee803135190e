package resource

import (
	"emperror.dev/errors"
	"fmt"
	"os"
)

// NCXResource is the navigation singleton.
type NCXResource struct {
	Base
	bookID string
}

func NewNCXResource(id, path, bookID string) *NCXResource {
	res := &NCXResource{bookID: bookID}
	res.init(res, id, path, nil)
	return res
}

func (*NCXResource) Kind() Kind { return KindNavigation }

func (res *NCXResource) MediaType() string { return MediaTypeForExtension("ncx") }

func (res *NCXResource) Less(other Resource) bool { return lessByFilename(res, other) }

const ncxTemplate = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE ncx PUBLIC "-//NISO//DTD ncx 2005-1//EN" "http://www.daisy.org/z3986/2005/ncx-2005-1.dtd">
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="urn:uuid:%s"/>
    <meta name="dtb:depth" content="0"/>
    <meta name="dtb:totalPageCount" content="0"/>
    <meta name="dtb:maxPageNumber" content="0"/>
  </head>
  <docTitle>
    <text>Unknown</text>
  </docTitle>
  <navMap>
  </navMap>
</ncx>
`

// WriteDefault writes an empty navigation document into the backing file.
func (res *NCXResource) WriteDefault() error {
	if err := os.WriteFile(res.Path(), []byte(fmt.Sprintf(ncxTemplate, res.bookID)), 0644); err != nil {
		return errors.Wrapf(err, "cannot write '%s'", res.Path())
	}
	return nil
}

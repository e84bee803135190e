package resource

// HTMLResource is a markup document of the reading order.
type HTMLResource struct {
	Base
	readingOrder int
}

func NewHTMLResource(id, path string, readingOrder int, semantic map[string]string) *HTMLResource {
	if readingOrder < 0 {
		readingOrder = -1
	}
	res := &HTMLResource{readingOrder: readingOrder}
	res.init(res, id, path, semantic)
	return res
}

func (*HTMLResource) Kind() Kind { return KindMarkup }

func (res *HTMLResource) MediaType() string {
	return MediaTypeForExtension("xhtml")
}

// ReadingOrder returns the position in the spine or -1 if none was assigned.
func (res *HTMLResource) ReadingOrder() int {
	res.RLock()
	defer res.RUnlock()
	return res.readingOrder
}

func (res *HTMLResource) SetReadingOrder(order int) {
	res.Lock()
	defer res.Unlock()
	res.readingOrder = order
}

// Less orders markup by reading order, then by filename.
func (res *HTMLResource) Less(other Resource) bool {
	if o, ok := other.(Ordered); ok {
		a, b := res.ReadingOrder(), o.ReadingOrder()
		if a != b {
			return a < b
		}
	}
	return lessByFilename(res, other)
}

type ImageResource struct {
	Base
}

func NewImageResource(id, path string, semantic map[string]string) *ImageResource {
	res := &ImageResource{}
	res.init(res, id, path, semantic)
	return res
}

func (*ImageResource) Kind() Kind { return KindImage }

func (res *ImageResource) MediaType() string {
	if mt := MediaTypeForExtension(Extension(res.Path())); mt != "" {
		return mt
	}
	return MediaTypeOctetStream
}

func (res *ImageResource) Less(other Resource) bool { return lessByFilename(res, other) }

type CSSResource struct {
	Base
}

func NewCSSResource(id, path string, semantic map[string]string) *CSSResource {
	res := &CSSResource{}
	res.init(res, id, path, semantic)
	return res
}

func (*CSSResource) Kind() Kind { return KindStylesheet }

func (res *CSSResource) MediaType() string { return MediaTypeForExtension("css") }

func (res *CSSResource) Less(other Resource) bool { return lessByFilename(res, other) }

// XPGTResource is an Adobe page template.
type XPGTResource struct {
	Base
}

func NewXPGTResource(id, path string, semantic map[string]string) *XPGTResource {
	res := &XPGTResource{}
	res.init(res, id, path, semantic)
	return res
}

func (*XPGTResource) Kind() Kind { return KindStyleTemplate }

func (res *XPGTResource) MediaType() string { return MediaTypeForExtension("xpgt") }

func (res *XPGTResource) Less(other Resource) bool { return lessByFilename(res, other) }

type FontResource struct {
	Base
}

func NewFontResource(id, path string, semantic map[string]string) *FontResource {
	res := &FontResource{}
	res.init(res, id, path, semantic)
	return res
}

func (*FontResource) Kind() Kind { return KindFont }

func (res *FontResource) MediaType() string {
	if mt := MediaTypeForExtension(Extension(res.Path())); mt != "" {
		return mt
	}
	return MediaTypeOctetStream
}

func (res *FontResource) Less(other Resource) bool { return lessByFilename(res, other) }

// MiscResource holds any auxiliary file without a dedicated variant.
type MiscResource struct {
	Base
	mediaType string
}

// NewMiscResource sniffs the media type of the already staged file at path.
func NewMiscResource(id, path string, semantic map[string]string) *MiscResource {
	res := &MiscResource{mediaType: detectMediaType(path)}
	res.init(res, id, path, semantic)
	return res
}

func (*MiscResource) Kind() Kind { return KindMisc }

func (res *MiscResource) MediaType() string { return res.mediaType }

func (res *MiscResource) Less(other Resource) bool { return lessByFilename(res, other) }

// New constructs the variant matching kind. Infrastructure kinds are not
// created here.
func New(kind Kind, id, path string, readingOrder int, semantic map[string]string) Resource {
	switch kind {
	case KindMarkup:
		return NewHTMLResource(id, path, readingOrder, semantic)
	case KindImage:
		return NewImageResource(id, path, semantic)
	case KindStylesheet:
		return NewCSSResource(id, path, semantic)
	case KindStyleTemplate:
		return NewXPGTResource(id, path, semantic)
	case KindFont:
		return NewFontResource(id, path, semantic)
	default:
		return NewMiscResource(id, path, semantic)
	}
}

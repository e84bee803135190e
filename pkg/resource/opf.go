package resource

import (
	"emperror.dev/errors"
	"encoding/xml"
	"golang.org/x/exp/slices"
	"os"
	"path/filepath"
	"sync"
)

const (
	opfNamespace = "http://www.idpf.org/2007/opf"
	dcNamespace  = "http://purl.org/dc/elements/1.1/"
	ncxItemID    = "ncx"
)

// ManifestItem is one entry of the package manifest.
type ManifestItem struct {
	ID        string
	Href      string
	MediaType string
}

// OPFResource is the package manifest singleton. Besides its backing file it
// keeps the table of all registered content resources so that the manifest
// never drifts from the registry.
type OPFResource struct {
	Base
	bookID   string
	title    string
	itemLock sync.RWMutex
	items    map[string]Resource
}

func NewOPFResource(id, path, bookID string) *OPFResource {
	res := &OPFResource{
		bookID: bookID,
		title:  "Unknown",
		items:  map[string]Resource{},
	}
	res.init(res, id, path, nil)
	return res
}

func (*OPFResource) Kind() Kind { return KindManifest }

func (res *OPFResource) MediaType() string { return MediaTypeForExtension("opf") }

func (res *OPFResource) Less(other Resource) bool { return lessByFilename(res, other) }

func (res *OPFResource) BookID() string { return res.bookID }

func (res *OPFResource) SetTitle(title string) {
	res.Lock()
	defer res.Unlock()
	res.title = title
}

func (res *OPFResource) Title() string {
	res.RLock()
	defer res.RUnlock()
	return res.title
}

// AddResource registers a content resource in the manifest table.
func (res *OPFResource) AddResource(r Resource) {
	if r == nil || r.Kind().IsInfrastructure() {
		return
	}
	res.itemLock.Lock()
	defer res.itemLock.Unlock()
	res.items[r.Identifier()] = r
}

func (res *OPFResource) RemoveResource(r Resource) {
	if r == nil {
		return
	}
	res.itemLock.Lock()
	defer res.itemLock.Unlock()
	delete(res.items, r.Identifier())
}

func (res *OPFResource) href(r Resource) string {
	rel, err := filepath.Rel(filepath.Dir(res.Path()), r.Path())
	if err != nil {
		return filepath.ToSlash(r.Path())
	}
	return filepath.ToSlash(rel)
}

// Items lists the manifest entries ordered by href.
func (res *OPFResource) Items() []ManifestItem {
	res.itemLock.RLock()
	resources := make([]Resource, 0, len(res.items))
	for _, r := range res.items {
		resources = append(resources, r)
	}
	res.itemLock.RUnlock()

	items := make([]ManifestItem, 0, len(resources))
	for _, r := range resources {
		items = append(items, ManifestItem{
			ID:        r.Identifier(),
			Href:      res.href(r),
			MediaType: r.MediaType(),
		})
	}
	slices.SortFunc(items, func(a, b ManifestItem) int {
		switch {
		case a.Href < b.Href:
			return -1
		case a.Href > b.Href:
			return 1
		}
		return 0
	})
	return items
}

// Spine lists the identifiers of all markup resources in reading order.
func (res *OPFResource) Spine() []string {
	res.itemLock.RLock()
	markup := []Resource{}
	for _, r := range res.items {
		if r.Kind() == KindMarkup {
			markup = append(markup, r)
		}
	}
	res.itemLock.RUnlock()

	slices.SortFunc(markup, func(a, b Resource) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	ids := make([]string, 0, len(markup))
	for _, r := range markup {
		ids = append(ids, r.Identifier())
	}
	return ids
}

type opfIdentifier struct {
	ID     string `xml:"id,attr"`
	Scheme string `xml:"opf:scheme,attr"`
	Value  string `xml:",chardata"`
}

type opfMetadata struct {
	XMLNSDC    string        `xml:"xmlns:dc,attr"`
	XMLNSOPF   string        `xml:"xmlns:opf,attr"`
	Identifier opfIdentifier `xml:"dc:identifier"`
	Title      string        `xml:"dc:title"`
	Language   string        `xml:"dc:language"`
}

type opfItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

type opfSpine struct {
	Toc      string       `xml:"toc,attr,omitempty"`
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfPackage struct {
	XMLName          xml.Name    `xml:"package"`
	XMLNS            string      `xml:"xmlns,attr"`
	UniqueIdentifier string      `xml:"unique-identifier,attr"`
	Version          string      `xml:"version,attr"`
	Metadata         opfMetadata `xml:"metadata"`
	Manifest         []opfItem   `xml:"manifest>item"`
	Spine            opfSpine    `xml:"spine"`
}

// Render builds the package document. nav may be nil.
func (res *OPFResource) Render(nav *NCXResource) ([]byte, error) {
	pkg := &opfPackage{
		XMLNS:            opfNamespace,
		UniqueIdentifier: "BookId",
		Version:          "2.0",
		Metadata: opfMetadata{
			XMLNSDC:  dcNamespace,
			XMLNSOPF: opfNamespace,
			Identifier: opfIdentifier{
				ID:     "BookId",
				Scheme: "UUID",
				Value:  "urn:uuid:" + res.bookID,
			},
			Title:    res.Title(),
			Language: "en",
		},
		Manifest: []opfItem{},
	}
	if nav != nil {
		pkg.Manifest = append(pkg.Manifest, opfItem{ID: ncxItemID, Href: res.href(nav), MediaType: nav.MediaType()})
		pkg.Spine.Toc = ncxItemID
	}
	for _, item := range res.Items() {
		pkg.Manifest = append(pkg.Manifest, opfItem{ID: item.ID, Href: item.Href, MediaType: item.MediaType})
	}
	for _, id := range res.Spine() {
		pkg.Spine.ItemRefs = append(pkg.Spine.ItemRefs, opfItemRef{IDRef: id})
	}
	data, err := xml.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal package document")
	}
	return append([]byte(xml.Header), data...), nil
}

// Save renders the package document into the backing file.
func (res *OPFResource) Save(nav *NCXResource) error {
	data, err := res.Render(nav)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(res.Path(), data, 0644); err != nil {
		return errors.Wrapf(err, "cannot write '%s'", res.Path())
	}
	return nil
}

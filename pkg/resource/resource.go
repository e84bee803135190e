package resource

import (
	"path/filepath"
	"sync"
)

// Kind tags a resource with its variant so that filtered scans never need
// runtime type inspection.
type Kind int

const (
	KindMisc Kind = iota
	KindMarkup
	KindImage
	KindStylesheet
	KindStyleTemplate
	KindFont
	KindManifest
	KindNavigation
)

var kindNames = map[Kind]string{
	KindMisc:          "misc",
	KindMarkup:        "markup",
	KindImage:         "image",
	KindStylesheet:    "stylesheet",
	KindStyleTemplate: "style-template",
	KindFont:          "font",
	KindManifest:      "manifest",
	KindNavigation:    "navigation",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsInfrastructure reports whether the kind is one of the two singletons.
func (k Kind) IsInfrastructure() bool {
	return k == KindManifest || k == KindNavigation
}

// ObserverFunc is called when a resource signals its destruction.
type ObserverFunc func(res Resource)

// Resource is any file tracked by a registry.
type Resource interface {
	Identifier() string
	Path() string
	Filename() string
	Kind() Kind
	MediaType() string
	Digest() string
	SemanticInformation() map[string]string
	// Less is the ordering relation used for sorted listings.
	Less(other Resource) bool
	// Relocate changes the backing path. Only the owning registry calls it.
	Relocate(path string)
	SetDigest(digest string)
	Subscribe(fn ObserverFunc)
	// Delete notifies all subscribers that the resource is gone.
	Delete()
}

// Ordered is implemented by resources with a reading order.
type Ordered interface {
	ReadingOrder() int
}

// Base carries the state shared by all variants. Variants embed it and
// provide Kind, MediaType and Less.
type Base struct {
	sync.RWMutex
	self      Resource
	id        string
	path      string
	digest    string
	semantic  map[string]string
	observers []ObserverFunc
	deleted   bool
}

func (b *Base) init(self Resource, id, path string, semantic map[string]string) {
	b.self = self
	b.id = id
	b.path = path
	b.semantic = map[string]string{}
	for key, val := range semantic {
		b.semantic[key] = val
	}
}

func (b *Base) Identifier() string { return b.id }

func (b *Base) Path() string {
	b.RLock()
	defer b.RUnlock()
	return b.path
}

func (b *Base) Filename() string {
	return filepath.Base(b.Path())
}

func (b *Base) Relocate(path string) {
	b.Lock()
	defer b.Unlock()
	b.path = path
}

func (b *Base) Digest() string {
	b.RLock()
	defer b.RUnlock()
	return b.digest
}

func (b *Base) SetDigest(digest string) {
	b.Lock()
	defer b.Unlock()
	b.digest = digest
}

// SemanticInformation returns a copy of the key/value metadata.
func (b *Base) SemanticInformation() map[string]string {
	b.RLock()
	defer b.RUnlock()
	result := make(map[string]string, len(b.semantic))
	for key, val := range b.semantic {
		result[key] = val
	}
	return result
}

func (b *Base) Subscribe(fn ObserverFunc) {
	if fn == nil {
		return
	}
	b.Lock()
	b.observers = append(b.observers, fn)
	b.Unlock()
}

// Delete runs the observers once. Further calls do nothing.
func (b *Base) Delete() {
	b.Lock()
	if b.deleted {
		b.Unlock()
		return
	}
	b.deleted = true
	observers := b.observers
	b.Unlock()
	for _, fn := range observers {
		fn(b.self)
	}
}

func lessByFilename(a, b Resource) bool {
	return a.Filename() < b.Filename()
}

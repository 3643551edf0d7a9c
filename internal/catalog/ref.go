package catalog

import "strings"

// externalPrefix is the namespace prefix that marks a product id as
// belonging to the external catalog. The convention lives here and only
// here; callers go through ParseRef/String.
const externalPrefix = "api-"

// Source identifies which backing store a product reference points at.
type Source int

const (
	SourceLocal Source = iota
	SourceExternal
)

func (s Source) String() string {
	if s == SourceExternal {
		return "external catalog"
	}
	return "local store"
}

// ProductRef is a tagged product identifier: either a key in the local
// product store or an id in the external catalog.
type ProductRef struct {
	source Source
	key    string
}

// LocalRef builds a reference into the local store.
func LocalRef(key string) ProductRef {
	return ProductRef{source: SourceLocal, key: key}
}

// ExternalRef builds a reference into the external catalog.
func ExternalRef(id string) ProductRef {
	return ProductRef{source: SourceExternal, key: id}
}

// ParseRef decodes a wire-format product id. Ids starting with "api-" are
// external; everything else is a local store key. The parse is total: any
// string maps to exactly one ref, and String inverts it losslessly.
func ParseRef(id string) ProductRef {
	if rest, ok := strings.CutPrefix(id, externalPrefix); ok {
		return ExternalRef(rest)
	}
	return LocalRef(id)
}

// Source reports which backing store the ref points at.
func (r ProductRef) Source() Source {
	return r.source
}

// Key returns the source-local identifier: the store key for local refs,
// the external catalog id for external refs.
func (r ProductRef) Key() string {
	return r.key
}

// String encodes the ref back to its wire format.
func (r ProductRef) String() string {
	if r.source == SourceExternal {
		return externalPrefix + r.key
	}
	return r.key
}

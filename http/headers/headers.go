package headers

import (
	"github.com/indigo-web/iter"
	"github.com/indigo-web/utils/strcomp"
)

type Pair struct {
	Key, Value string
}

// Headers stores header fields as ordered pairs of key-value strings. Keys are
// case-insensitive. Each unique key owns exactly one entry: values of repeated
// fields are folded into it by the caller, and values split across multiple
// reads are grown in place via Append
type Headers struct {
	pairs      []Pair
	keysBuff []string
}

func New() *Headers {
	return NewPrealloc(0)
}

// NewPrealloc returns an instance of Headers with pre-allocated underlying storage
func NewPrealloc(n int) *Headers {
	return &Headers{
		pairs: make([]Pair, 0, n),
	}
}

// NewFromMap returns a new instance with already inserted values from given map.
// Note: as maps are unordered, resulting underlying structure will also contain
// unordered pairs
func NewFromMap(m map[string]string) *Headers {
	h := NewPrealloc(len(m))

	for key, value := range m {
		h.Append(key, value)
	}

	return h
}

// Append grows the value stored under the key by the passed fragment. If the key
// isn't present yet, a new entry is created. The key comparison is case-insensitive,
// however the originally spelled key is the one kept
func (h *Headers) Append(key, fragment string) *Headers {
	if p := h.lookup(key); p != nil {
		p.Value += fragment
		return h
	}

	h.pairs = append(h.pairs, Pair{Key: key, Value: fragment})

	return h
}

// Has tells whether the key is present
func (h *Headers) Has(key string) bool {
	return h.lookup(key) != nil
}

// Value returns the value corresponding to the key. Otherwise, empty string is returned
func (h *Headers) Value(key string) string {
	return h.ValueOr(key, "")
}

// ValueOr returns either the value corresponding to the key or the custom value,
// defined via the second parameter
func (h *Headers) ValueOr(key, or string) string {
	value, found := h.Get(key)
	if !found {
		return or
	}

	return value
}

// Get returns a value corresponding to the key and a bool, indicating whether the
// key exists
func (h *Headers) Get(key string) (string, bool) {
	if p := h.lookup(key); p != nil {
		return p.Value, true
	}

	return "", false
}

// Keys returns all the presented keys.
//
// WARNING: calling it twice will override values, returned by the first call. Consider
// copying the returned slice for safe use
func (h *Headers) Keys() []string {
	h.keysBuff = h.keysBuff[:0]

	for _, pair := range h.pairs {
		h.keysBuff = append(h.keysBuff, pair.Key)
	}

	return h.keysBuff
}

// Iter returns an iterator over the stored pairs
func (h *Headers) Iter() iter.Iterator[Pair] {
	return iter.Slice(h.pairs)
}

func (h *Headers) Len() int {
	return len(h.pairs)
}

func (h *Headers) lookup(key string) *Pair {
	for i := range h.pairs {
		if strcomp.EqualFold(key, h.pairs[i].Key) {
			return &h.pairs[i]
		}
	}

	return nil
}

// Package value implements the tagged value tree that configcrunch documents
// are built from: scalars, ordered sequences, insertion-ordered mappings and
// nested typed document nodes.
package value

import (
	wk8orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is an insertion-order-preserving string-keyed mapping. It wraps
// go-ordered-map the same way a host library wraps a vendored container:
// callers of this package depend on the Map interface, never on the vendor
// type directly.
type Map interface {
	Get(key string) (Value, bool)
	Set(key string, v Value) (Value, bool)
	Delete(key string) (Value, bool)
	Len() int
	Keys() []string
	Oldest() *Pair
	Newest() *Pair
}

// Pair is a single key/value entry of a Map, iterable in insertion order via
// Next.
type Pair struct {
	Key   string
	Value Value
	inner *wk8orderedmap.Pair[string, Value]
}

// Next returns the following pair in insertion order, or nil at the end.
func (p *Pair) Next() *Pair {
	if p == nil || p.inner == nil {
		return nil
	}
	n := p.inner.Next()
	if n == nil {
		return nil
	}
	return &Pair{Key: n.Key, Value: n.Value, inner: n}
}

type orderedMap struct {
	*wk8orderedmap.OrderedMap[string, Value]
}

// NewMap creates an empty ordered map.
func NewMap() Map {
	return &orderedMap{OrderedMap: wk8orderedmap.New[string, Value]()}
}

func (m *orderedMap) Keys() []string {
	keys := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (m *orderedMap) Oldest() *Pair {
	p := m.OrderedMap.Oldest()
	if p == nil {
		return nil
	}
	return &Pair{Key: p.Key, Value: p.Value, inner: p}
}

func (m *orderedMap) Newest() *Pair {
	p := m.OrderedMap.Newest()
	if p == nil {
		return nil
	}
	return &Pair{Key: p.Key, Value: p.Value, inner: p}
}

// CopyMap returns a shallow copy of m preserving key order. Values are not
// deep-copied: nested Maps and sequences are shared between m and the copy,
// so an in-place change to one of them shows through both.
func CopyMap(m Map) Map {
	out := NewMap()
	if m == nil {
		return out
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	return out
}

package vdom

import "github.com/emirpasic/gods/maps/linkedhashmap"

// Attrs is an insertion-ordered attribute map.
//
// Setting an existing name overwrites its value and keeps its original
// position. The zero value is an empty map ready for use. Copies share
// storage, so an Attrs must not be mutated once its tree is handed to Diff.
type Attrs struct {
	m *linkedhashmap.Map
}

// NewAttrs builds an Attrs from alternating name/value pairs.
// Values are converted with ValueOf.
func NewAttrs(pairs ...any) Attrs {
	var a Attrs
	for i := 0; i+1 < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok || name == "" {
			continue
		}
		a.Set(name, ValueOf(pairs[i+1]))
	}
	return a
}

// Set sets name to v.
func (a *Attrs) Set(name string, v Value) {
	if a.m == nil {
		a.m = linkedhashmap.New()
	}
	a.m.Put(name, v)
}

// Get returns the value stored under name.
func (a Attrs) Get(name string) (Value, bool) {
	if a.m == nil {
		return Value{}, false
	}
	v, ok := a.m.Get(name)
	if !ok {
		return Value{}, false
	}
	return v.(Value), true
}

// Has reports whether name is present.
func (a Attrs) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Delete removes name.
func (a *Attrs) Delete(name string) {
	if a.m == nil {
		return
	}
	a.m.Remove(name)
}

// Len returns the number of attributes.
func (a Attrs) Len() int {
	if a.m == nil {
		return 0
	}
	return a.m.Size()
}

// Names returns the attribute names in insertion order.
func (a Attrs) Names() []string {
	if a.m == nil {
		return nil
	}
	keys := a.m.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	return names
}

// Range calls fn for each attribute in insertion order until fn returns false.
func (a Attrs) Range(fn func(name string, v Value) bool) {
	if a.m == nil {
		return
	}
	it := a.m.Iterator()
	for it.Next() {
		if !fn(it.Key().(string), it.Value().(Value)) {
			return
		}
	}
}

// Equal reports whether both maps hold the same names with equal values.
// Order is not significant.
func (a Attrs) Equal(o Attrs) bool {
	if a.Len() != o.Len() {
		return false
	}
	equal := true
	a.Range(func(name string, v Value) bool {
		ov, ok := o.Get(name)
		if !ok || !v.Equal(ov) {
			equal = false
		}
		return equal
	})
	return equal
}

// Clone returns an independent copy.
func (a Attrs) Clone() Attrs {
	var c Attrs
	a.Range(func(name string, v Value) bool {
		c.Set(name, v)
		return true
	})
	return c
}

// Map returns the attributes as a plain map.
func (a Attrs) Map() map[string]Value {
	out := make(map[string]Value, a.Len())
	a.Range(func(name string, v Value) bool {
		out[name] = v
		return true
	})
	return out
}

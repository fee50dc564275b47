package vdom

import "github.com/emirpasic/gods/maps/linkedhashmap"

// Events is an insertion-ordered map from event name to callback.
// The zero value is empty and ready for use.
type Events struct {
	m *linkedhashmap.Map
}

// Set binds cb to the named event, replacing any previous binding.
func (e *Events) Set(name string, cb *Callback) {
	if e.m == nil {
		e.m = linkedhashmap.New()
	}
	e.m.Put(name, cb)
}

// Get returns the callback bound to name.
func (e Events) Get(name string) (*Callback, bool) {
	if e.m == nil {
		return nil, false
	}
	v, ok := e.m.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*Callback), true
}

// Delete removes the binding for name.
func (e *Events) Delete(name string) {
	if e.m == nil {
		return
	}
	e.m.Remove(name)
}

// Len returns the number of bindings.
func (e Events) Len() int {
	if e.m == nil {
		return 0
	}
	return e.m.Size()
}

// Names returns the event names in insertion order.
func (e Events) Names() []string {
	if e.m == nil {
		return nil
	}
	keys := e.m.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	return names
}

// Range calls fn for each binding in insertion order until fn returns false.
func (e Events) Range(fn func(name string, cb *Callback) bool) {
	if e.m == nil {
		return
	}
	it := e.m.Iterator()
	for it.Next() {
		if !fn(it.Key().(string), it.Value().(*Callback)) {
			return
		}
	}
}

// SameBindings reports whether both maps bind the same event names to
// callbacks of the same generation.
func (e Events) SameBindings(o Events) bool {
	if e.Len() != o.Len() {
		return false
	}
	same := true
	e.Range(func(name string, cb *Callback) bool {
		ocb, ok := o.Get(name)
		if !ok || ocb.Generation() != cb.Generation() {
			same = false
		}
		return same
	})
	return same
}

// Clone returns an independent copy sharing the callbacks.
func (e Events) Clone() Events {
	var c Events
	e.Range(func(name string, cb *Callback) bool {
		c.Set(name, cb)
		return true
	})
	return c
}

// Event handler helpers

// On binds handler to the named event. Accepted handler shapes are
// *Callback, func(Value), func() and func(string).
func On(name string, handler any) EventHandler {
	return EventHandler{Event: name, Handler: toCallback(handler)}
}

// Mouse events

// OnClick handles click events.
func OnClick(handler any) EventHandler { return On("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler any) EventHandler { return On("dblclick", handler) }

// OnMouseDown handles mousedown events.
func OnMouseDown(handler any) EventHandler { return On("mousedown", handler) }

// OnMouseUp handles mouseup events.
func OnMouseUp(handler any) EventHandler { return On("mouseup", handler) }

// OnMouseEnter handles mouseenter events.
func OnMouseEnter(handler any) EventHandler { return On("mouseenter", handler) }

// OnMouseLeave handles mouseleave events.
func OnMouseLeave(handler any) EventHandler { return On("mouseleave", handler) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(handler any) EventHandler { return On("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler any) EventHandler { return On("keyup", handler) }

// Form events

// OnInput handles input events.
func OnInput(handler any) EventHandler { return On("input", handler) }

// OnChange handles change events.
func OnChange(handler any) EventHandler { return On("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler any) EventHandler { return On("submit", handler) }

// OnFocus handles focus events.
func OnFocus(handler any) EventHandler { return On("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler any) EventHandler { return On("blur", handler) }

// Widget events used by native backends.

// OnActivate handles activation (toolkit buttons, menu items).
func OnActivate(handler any) EventHandler { return On("activate", handler) }

// OnToggle handles toggle state changes (checkboxes, switches).
func OnToggle(handler any) EventHandler { return On("toggle", handler) }

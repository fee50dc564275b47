package vdom

import "sync/atomic"

// callbackGen hands out generation tokens to new callbacks.
var callbackGen atomic.Uint64

// Callback is an opaque handle around a single-argument event handler.
//
// Two callbacks always compare equal: closures cannot be compared, so a
// handler swap is invisible to Diff unless Options.HandlerIdentity is set,
// in which case the generation token is compared instead.
type Callback struct {
	fn  func(Value)
	gen uint64
}

// NewCallback wraps fn in a Callback with a fresh generation token.
func NewCallback(fn func(Value)) *Callback {
	return &Callback{fn: fn, gen: callbackGen.Add(1)}
}

// Call invokes the handler. Calling a nil Callback or a nil handler is a no-op.
func (c *Callback) Call(arg Value) {
	if c == nil || c.fn == nil {
		return
	}
	c.fn(arg)
}

// Generation returns the token assigned when the callback was created.
func (c *Callback) Generation() uint64 {
	if c == nil {
		return 0
	}
	return c.gen
}

// Equal always returns true.
func (c *Callback) Equal(*Callback) bool {
	return true
}

// toCallback adapts the handler shapes accepted by the event helpers.
func toCallback(handler any) *Callback {
	switch h := handler.(type) {
	case nil:
		return nil
	case *Callback:
		return h
	case func(Value):
		return NewCallback(h)
	case func():
		return NewCallback(func(Value) { h() })
	case func(string):
		return NewCallback(func(v Value) { h(v.String()) })
	default:
		return nil
	}
}

package vdom

import (
	"fmt"
	"strings"
)

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: ValueOf(value)}
}

// AttrOf creates an arbitrary attribute. The value is converted with ValueOf.
func AttrOf(key string, value any) Attr { return attr(key, value) }

// Key sets the key attribute. Any value is stored as its %v text, so
// Key(3) and Key("3") are the same key. Two elements with different keys
// are replaced, never patched. Keys set through AttrOf keep their kind, and
// keys of different kinds never match.
func Key(key any) Attr {
	return Attr{Key: KeyAttr, Value: String(fmt.Sprint(key))}
}

// String-valued attributes.

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining the names with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// TitleAttr sets the title attribute.
func TitleAttr(title string) Attr { return attr("title", title) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// ValueAttr sets the value attribute.
func ValueAttr(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Data sets a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Boolean attributes are present when true. Their Value is Bool(true), which
// a renderer may show as the bare attribute name.

// Hidden sets the hidden attribute.
func Hidden() Attr { return attr("hidden", true) }

// Disabled sets the disabled attribute.
func Disabled() Attr { return attr("disabled", true) }

// Checked sets the checked attribute.
func Checked() Attr { return attr("checked", true) }

// AriaHidden sets aria-hidden.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", hidden) }

// Numeric attributes keep their Int value, so a renderer can restrict the
// kinds it accepts per attribute.

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return attr("tabindex", index) }

// Width sets the width attribute.
func Width(w int) Attr { return attr("width", w) }

// Layout attaches an opaque layout result computed by a backend.
func Layout(result any) Attr { return Attr{Key: "layout", Value: Opaque(result)} }

// Blob attaches raw bytes (icons, image data) under name.
func Blob(name string, data []byte) Attr { return Attr{Key: name, Value: Bytes(data)} }

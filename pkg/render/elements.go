package render

// isInlineElement reports whether pretty output keeps tag on its parent's
// line.
func isInlineElement(tag string) bool {
	switch tag {
	case "a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "data", "dfn",
		"em", "i", "kbd", "mark", "q", "s", "samp", "small", "span", "strong",
		"sub", "sup", "time", "u", "var", "wbr",
		"ruby", "rb", "rp", "rt", "rtc":
		return true
	}
	return false
}

// IsBooleanAttr reports whether name is an HTML boolean attribute. Such an
// attribute is on when present: a true value renders as the bare name and a
// false value is left out. Parsers use it to read the bare name back as
// vdom.Bool(true).
func IsBooleanAttr(name string) bool {
	switch name {
	case "allowfullscreen", "async", "autofocus", "autoplay", "checked",
		"controls", "default", "defer", "disabled", "formnovalidate", "hidden",
		"inert", "ismap", "itemscope", "loop", "multiple", "muted", "nomodule",
		"novalidate", "open", "playsinline", "readonly", "required", "reversed",
		"selected":
		return true
	}
	return false
}

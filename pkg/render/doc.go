// Package render renders vdom trees to HTML.
//
// It is the string-producing counterpart of the live renderer: the CLI
// uses it to print trees, and tests use it to compare a patched tree with
// the expected one in a readable form.
//
//   - Text and attribute values are escaped
//   - Void elements have no closing tag
//   - Boolean attributes (disabled, checked, ...) render bare when true
//     and are omitted when false
//   - The key attribute is not rendered
//   - A namespaced element gets an xmlns attribute where its namespace
//     differs from its parent's; childless foreign elements self-close
//   - Event bindings render as data-on-<event> markers
//
// Attributes are written in insertion order, so the output is
// deterministic for a given tree.
//
//	html, err := render.NewRenderer(render.RendererConfig{Pretty: true}).RenderToString(tree)
package render

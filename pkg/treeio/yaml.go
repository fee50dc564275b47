package treeio

import (
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// YAML tags for values that have no plain scalar form.
const (
	binaryTag = "!!binary"
	opaqueTag = "!opaque"
)

// DecodeYAML reads a tree document. JSON documents are accepted too.
//
// An element is a mapping with a tag:
//
//	tag: ul
//	ns: ""                  # optional namespace URI
//	attrs: {class: list, hidden: true, tabindex: 2}
//	events: [click]
//	children:
//	  - {tag: li, children: [first]}
//	  - second              # a plain string is a text node
//
// A mapping without a tag is a text node: {text: "hello"}. Attribute order
// is preserved. Scalars keep their YAML type; !!binary and !opaque tags
// produce byte and opaque values. Events decode to inert callbacks.
func DecodeYAML(r io.Reader) (*vdom.Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return nil, nil
	}
	return decodeNode(root)
}

func decodeNode(y *yaml.Node) (*vdom.Node, error) {
	switch y.Kind {
	case yaml.ScalarNode:
		return vdom.Text(y.Value), nil
	case yaml.MappingNode:
	case yaml.AliasNode:
		return decodeNode(y.Alias)
	default:
		return nil, nodeError(y, "expected a mapping or a string")
	}

	var (
		n      vdom.Node
		hasTag bool
	)
	for i := 0; i+1 < len(y.Content); i += 2 {
		key, val := y.Content[i], y.Content[i+1]
		switch key.Value {
		case "tag":
			if err := val.Decode(&n.Tag); err != nil {
				return nil, err
			}
			hasTag = true
		case "ns":
			if err := val.Decode(&n.Namespace); err != nil {
				return nil, err
			}
		case "text":
			if err := val.Decode(&n.Text); err != nil {
				return nil, err
			}
		case "attrs":
			if err := decodeAttrs(val, &n.Attrs); err != nil {
				return nil, err
			}
		case "events":
			var names []string
			if err := val.Decode(&names); err != nil {
				return nil, err
			}
			for _, name := range names {
				n.Events.Set(name, vdom.NewCallback(nil))
			}
		case "children":
			if val.Kind != yaml.SequenceNode {
				return nil, nodeError(val, "children must be a sequence")
			}
			for _, c := range val.Content {
				child, err := decodeNode(c)
				if err != nil {
					return nil, err
				}
				n.Children = append(n.Children, child)
			}
		default:
			return nil, nodeError(key, "unknown field "+strconv.Quote(key.Value))
		}
	}

	if !hasTag {
		if n.Attrs.Len() > 0 || n.Events.Len() > 0 || len(n.Children) > 0 {
			return nil, nodeError(y, "text node with element fields")
		}
		return vdom.Text(n.Text), nil
	}
	if n.Tag == "" {
		return nil, nodeError(y, "empty tag")
	}
	n.Kind = vdom.KindElement
	n.Text = ""
	return &n, nil
}

func decodeAttrs(y *yaml.Node, attrs *vdom.Attrs) error {
	if y.Kind != yaml.MappingNode {
		return nodeError(y, "attrs must be a mapping")
	}
	for i := 0; i+1 < len(y.Content); i += 2 {
		v, err := decodeValue(y.Content[i+1])
		if err != nil {
			return err
		}
		attrs.Set(y.Content[i].Value, v)
	}
	return nil
}

func decodeValue(y *yaml.Node) (vdom.Value, error) {
	if y.Kind != yaml.ScalarNode {
		return vdom.Value{}, nodeError(y, "attribute values must be scalars")
	}
	switch y.ShortTag() {
	case "!!bool":
		var b bool
		err := y.Decode(&b)
		return vdom.Bool(b), err
	case "!!int":
		var n int64
		err := y.Decode(&n)
		return vdom.Int(n), err
	case "!!float":
		var f float64
		err := y.Decode(&f)
		return vdom.Float(f), err
	case binaryTag:
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(y.Value), ""))
		if err != nil {
			return vdom.Value{}, nodeError(y, "invalid base64")
		}
		return vdom.Bytes(b), nil
	case opaqueTag:
		return vdom.Opaque(y.Value), nil
	case "!!null":
		return vdom.String(""), nil
	default:
		return vdom.String(y.Value), nil
	}
}

func nodeError(y *yaml.Node, msg string) error {
	return fmt.Errorf("yaml: line %d, column %d: %s", y.Line, y.Column, msg)
}

// EncodeYAML writes n as a tree document that DecodeYAML reads back.
// Text children are written as plain strings.
func EncodeYAML(w io.Writer, n *vdom.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	var doc *yaml.Node
	if n == nil {
		doc = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	} else {
		doc = encodeNode(n, true)
	}
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// EncodeJSON writes n as a JSON tree document. Byte and opaque attribute
// values keep their YAML tags, so only DecodeYAML reads those back.
func EncodeJSON(w io.Writer, n *vdom.Node) error {
	enc := yaml.NewEncoder(w)
	var doc *yaml.Node
	if n == nil {
		doc = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	} else {
		doc = encodeNode(n, true)
		jsonStyle(doc)
	}
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// jsonStyle switches a node tree to flow collections and double-quoted
// strings, which is the JSON subset of YAML.
func jsonStyle(y *yaml.Node) {
	switch y.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		y.Style = yaml.FlowStyle
		for _, c := range y.Content {
			jsonStyle(c)
		}
	case yaml.ScalarNode:
		if y.Tag == "!!str" {
			y.Style = yaml.DoubleQuotedStyle
		}
	}
}

func encodeNode(n *vdom.Node, root bool) *yaml.Node {
	if n.Kind == vdom.KindText {
		if !root {
			return str(n.Text)
		}
		return mapping("text", str(n.Text))
	}

	out := mapping("tag", str(n.Tag))
	if n.Namespace != "" {
		out.Content = append(out.Content, str("ns"), str(n.Namespace))
	}
	if n.Attrs.Len() > 0 {
		attrs := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		n.Attrs.Range(func(name string, v vdom.Value) bool {
			attrs.Content = append(attrs.Content, str(name), encodeValue(v))
			return true
		})
		out.Content = append(out.Content, str("attrs"), attrs)
	}
	if n.Events.Len() > 0 {
		events := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, name := range n.Events.Names() {
			events.Content = append(events.Content, str(name))
		}
		out.Content = append(out.Content, str("events"), events)
	}
	if len(n.Children) > 0 {
		children := &yaml.Node{Kind: yaml.SequenceNode}
		for _, c := range n.Children {
			children.Content = append(children.Content, encodeNode(c, false))
		}
		out.Content = append(out.Content, str("children"), children)
	}
	return out
}

func encodeValue(v vdom.Value) *yaml.Node {
	switch v.Kind {
	case vdom.ValueBool:
		return scalar("!!bool", strconv.FormatBool(v.Flag))
	case vdom.ValueInt:
		return scalar("!!int", strconv.FormatInt(v.Int, 10))
	case vdom.ValueFloat:
		return scalar("!!float", strconv.FormatFloat(v.Float, 'g', -1, 64))
	case vdom.ValueBytes:
		return scalar(binaryTag, base64.StdEncoding.EncodeToString(v.Blob))
	case vdom.ValueOpaque:
		return scalar(opaqueTag, v.String())
	default:
		return str(v.Str)
	}
}

func str(s string) *yaml.Node {
	return scalar("!!str", s)
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func mapping(key string, val *yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{str(key), val}}
}

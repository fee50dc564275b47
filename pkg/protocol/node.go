package protocol

import (
	"github.com/vango-dev/vtree/pkg/vdom"
)

// nullNode marks an absent node (Replace(0, nil) unmounts the root).
const nullNode = 0xFF

// EncodeNode encodes a tree to bytes.
func EncodeNode(n *vdom.Node) []byte {
	e := NewEncoderWithCap(64 * vdom.Count(n))
	EncodeNodeTo(e, n)
	return e.Bytes()
}

// EncodeNodeTo encodes a tree using the provided encoder.
//
// Wire format:
//
//	element: [0x00][tag][namespace][attrs: count (name value)*][events: count name*][children: count node*]
//	text:    [0x01][text]
//	nil:     [0xFF]
//
// Event handlers cannot cross the wire; only the bound event names are sent.
func EncodeNodeTo(e *Encoder, n *vdom.Node) {
	if n == nil {
		e.WriteByte(nullNode)
		return
	}

	e.WriteByte(byte(n.Kind))

	switch n.Kind {
	case vdom.KindText:
		e.WriteString(n.Text)

	default:
		e.WriteString(n.Tag)
		e.WriteString(n.Namespace)

		e.WriteUvarint(uint64(n.Attrs.Len()))
		n.Attrs.Range(func(name string, v vdom.Value) bool {
			e.WriteString(name)
			e.WriteValue(v)
			return true
		})

		e.WriteUvarint(uint64(n.Events.Len()))
		for _, name := range n.Events.Names() {
			e.WriteString(name)
		}

		e.WriteUvarint(uint64(len(n.Children)))
		for _, child := range n.Children {
			EncodeNodeTo(e, child)
		}
	}
}

// DecodeNode decodes a tree from bytes. The whole input must be consumed.
//
// Decoded elements carry one inert callback per bound event name so that
// renderers can wire listeners; invoking them does nothing.
func DecodeNode(data []byte) (*vdom.Node, error) {
	d := NewDecoder(data)
	n, err := DecodeNodeFrom(d)
	if err == nil {
		err = d.expectEOF()
	}
	if err != nil {
		return nil, decodeError("node", err)
	}
	return n, nil
}

// DecodeNodeFrom decodes a tree from a decoder.
// Enforces the decoder's depth limit to prevent stack overflow attacks.
func DecodeNodeFrom(d *Decoder) (*vdom.Node, error) {
	return decodeNodeWithDepth(d, 0)
}

func decodeNodeWithDepth(d *Decoder, depth int) (*vdom.Node, error) {
	if err := checkDepth(depth, d.limits.MaxDepth); err != nil {
		return nil, err
	}

	kindByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}

	switch kindByte {
	case nullNode:
		return nil, nil

	case byte(vdom.KindText):
		text, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		return vdom.Text(text), nil

	case byte(vdom.KindElement):
		return decodeElement(d, depth)

	default:
		return nil, ErrInvalidNodeKind
	}
}

func decodeElement(d *Decoder, depth int) (*vdom.Node, error) {
	tag, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	ns, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	node := &vdom.Node{Kind: vdom.KindElement, Tag: tag, Namespace: ns}

	attrCount, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	for i := 0; i < attrCount; i++ {
		name, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := d.ReadValue()
		if err != nil {
			return nil, err
		}
		node.Attrs.Set(name, v)
	}

	eventCount, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	for i := 0; i < eventCount; i++ {
		name, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		node.Events.Set(name, vdom.NewCallback(nil))
	}

	childCount, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	if childCount > 0 {
		node.Children = make([]*vdom.Node, 0, childCount)
		for i := 0; i < childCount; i++ {
			child, err := decodeNodeWithDepth(d, depth+1)
			if err != nil {
				return nil, err
			}
			if child == nil {
				return nil, ErrNilChild
			}
			node.Children = append(node.Children, child)
		}
	}

	return node, nil
}

// EncodeMount encodes a FrameMount payload: the sequence number the tree
// corresponds to, followed by the tree.
func EncodeMount(seq uint64, root *vdom.Node) []byte {
	e := NewEncoderWithCap(8 + 64*vdom.Count(root))
	e.WriteUvarint(seq)
	EncodeNodeTo(e, root)
	return e.Bytes()
}

// DecodeMount decodes a FrameMount payload.
func DecodeMount(data []byte) (uint64, *vdom.Node, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return 0, nil, decodeError("mount", err)
	}
	root, err := DecodeNodeFrom(d)
	if err == nil {
		err = d.expectEOF()
	}
	if err != nil {
		return 0, nil, decodeError("mount", err)
	}
	return seq, root, nil
}

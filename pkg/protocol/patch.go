package protocol

import (
	"errors"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// Patch decoding errors.
var (
	ErrUnknownPatchKind = errors.New("protocol: unknown patch kind")
	ErrInvalidNodeKind  = errors.New("protocol: invalid node kind")
	ErrNilChild         = errors.New("protocol: nil child node")
	ErrNegativeIndex    = errors.New("protocol: index out of int range")
)

// PatchesFrame represents a batch of patches with sequence number.
// Indices address the receiver's tree as it was before the batch.
type PatchesFrame struct {
	Seq     uint64
	Patches []vdom.Patch
}

// EncodePatches encodes a patches frame to bytes.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, pf)
	return e.Bytes()
}

// EncodePatchesTo encodes a patches frame using the provided encoder.
//
// Wire format: [seq: varint][count: varint] then per patch
// [kind: byte][index: varint][payload], where the payload is
//
//	Replace:          node (0xFF for nil)
//	AddAttributes:    count (name value)*
//	RemoveAttributes: count name*
//	ChangeText:       text
//	AppendChildren:   count node*
//	TruncateChildren: keep (varint)
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		EncodePatchTo(e, &pf.Patches[i])
	}
}

// EncodePatchTo encodes a single patch.
func EncodePatchTo(e *Encoder, p *vdom.Patch) {
	e.WriteByte(byte(p.Kind))
	e.WriteUvarint(uint64(p.Index))

	switch p.Kind {
	case vdom.PatchReplace:
		EncodeNodeTo(e, p.Node)

	case vdom.PatchAddAttributes:
		e.WriteUvarint(uint64(p.Attrs.Len()))
		p.Attrs.Range(func(name string, v vdom.Value) bool {
			e.WriteString(name)
			e.WriteValue(v)
			return true
		})

	case vdom.PatchRemoveAttributes:
		e.WriteUvarint(uint64(len(p.Names)))
		for _, name := range p.Names {
			e.WriteString(name)
		}

	case vdom.PatchChangeText:
		e.WriteString(p.Text)

	case vdom.PatchAppendChildren:
		e.WriteUvarint(uint64(len(p.Children)))
		for _, child := range p.Children {
			EncodeNodeTo(e, child)
		}

	case vdom.PatchTruncateChildren:
		e.WriteUvarint(uint64(p.Keep))
	}
}

// DecodePatches decodes a patches frame from bytes.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	pf, err := DecodePatchesFrom(d)
	if err == nil {
		err = d.expectEOF()
	}
	if err != nil {
		return nil, decodeError("patches", err)
	}
	return pf, nil
}

// DecodePatchesFrom decodes a patches frame from a decoder.
func DecodePatchesFrom(d *Decoder) (*PatchesFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	pf := &PatchesFrame{Seq: seq}
	if count > 0 {
		pf.Patches = make([]vdom.Patch, 0, count)
	}
	for i := 0; i < count; i++ {
		p, err := DecodePatchFrom(d)
		if err != nil {
			return nil, err
		}
		pf.Patches = append(pf.Patches, p)
	}
	return pf, nil
}

// DecodePatchFrom decodes a single patch.
func DecodePatchFrom(d *Decoder) (vdom.Patch, error) {
	kindByte, err := d.ReadByte()
	if err != nil {
		return vdom.Patch{}, err
	}
	index, err := d.readIndex()
	if err != nil {
		return vdom.Patch{}, err
	}

	switch kind := vdom.PatchKind(kindByte); kind {
	case vdom.PatchReplace:
		node, err := DecodeNodeFrom(d)
		if err != nil {
			return vdom.Patch{}, err
		}
		return vdom.NewReplace(index, node), nil

	case vdom.PatchAddAttributes:
		count, err := d.ReadCollectionCount()
		if err != nil {
			return vdom.Patch{}, err
		}
		var attrs vdom.Attrs
		for i := 0; i < count; i++ {
			name, err := d.ReadString()
			if err != nil {
				return vdom.Patch{}, err
			}
			v, err := d.ReadValue()
			if err != nil {
				return vdom.Patch{}, err
			}
			attrs.Set(name, v)
		}
		return vdom.NewAddAttributes(index, attrs), nil

	case vdom.PatchRemoveAttributes:
		count, err := d.ReadCollectionCount()
		if err != nil {
			return vdom.Patch{}, err
		}
		names := make([]string, 0, count)
		for i := 0; i < count; i++ {
			name, err := d.ReadString()
			if err != nil {
				return vdom.Patch{}, err
			}
			names = append(names, name)
		}
		return vdom.NewRemoveAttributes(index, names), nil

	case vdom.PatchChangeText:
		text, err := d.ReadString()
		if err != nil {
			return vdom.Patch{}, err
		}
		return vdom.NewChangeText(index, text), nil

	case vdom.PatchAppendChildren:
		count, err := d.ReadCollectionCount()
		if err != nil {
			return vdom.Patch{}, err
		}
		children := make([]*vdom.Node, 0, count)
		for i := 0; i < count; i++ {
			child, err := DecodeNodeFrom(d)
			if err != nil {
				return vdom.Patch{}, err
			}
			if child == nil {
				return vdom.Patch{}, ErrNilChild
			}
			children = append(children, child)
		}
		return vdom.NewAppendChildren(index, children), nil

	case vdom.PatchTruncateChildren:
		keep, err := d.readIndex()
		if err != nil {
			return vdom.Patch{}, err
		}
		return vdom.NewTruncateChildren(index, keep), nil

	default:
		return vdom.Patch{}, ErrUnknownPatchKind
	}
}

// readIndex reads a varint that must fit in a non-negative int.
func (d *Decoder) readIndex() (int, error) {
	v, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if v > uint64(^uint(0)>>1) {
		return 0, ErrNegativeIndex
	}
	return int(v), nil
}

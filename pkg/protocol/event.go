package protocol

import "github.com/vango-dev/vtree/pkg/vdom"

// EventMessage reports a user interaction on a mirrored tree.
// Index addresses the target node in the tree as of Seq.
type EventMessage struct {
	Seq   uint64     // Last patch batch the client had applied
	Index int        // Pre-order index of the target element
	Event string     // Event name, e.g. "click"
	Arg   vdom.Value // Argument passed to the handler
}

// EncodeEvent encodes an EventMessage to bytes.
func EncodeEvent(ev *EventMessage) []byte {
	e := NewEncoderWithCap(16 + len(ev.Event))
	EncodeEventTo(e, ev)
	return e.Bytes()
}

// EncodeEventTo encodes an EventMessage using the provided encoder.
//
// Wire format: [seq: varint][index: varint][event: string][arg: value]
func EncodeEventTo(e *Encoder, ev *EventMessage) {
	e.WriteUvarint(ev.Seq)
	e.WriteUvarint(uint64(ev.Index))
	e.WriteString(ev.Event)
	e.WriteValue(ev.Arg)
}

// DecodeEvent decodes an EventMessage from bytes.
func DecodeEvent(data []byte) (*EventMessage, error) {
	d := NewDecoder(data)
	ev, err := DecodeEventFrom(d)
	if err == nil {
		err = d.expectEOF()
	}
	if err != nil {
		return nil, decodeError("event", err)
	}
	return ev, nil
}

// DecodeEventFrom decodes an EventMessage from a decoder.
func DecodeEventFrom(d *Decoder) (*EventMessage, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	index, err := d.readIndex()
	if err != nil {
		return nil, err
	}
	name, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	arg, err := d.ReadValue()
	if err != nil {
		return nil, err
	}
	return &EventMessage{Seq: seq, Index: index, Event: name, Arg: arg}, nil
}

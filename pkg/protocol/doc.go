// Package protocol implements the binary wire format used to mirror a
// vdom tree into a remote renderer.
//
// The server sends a full tree once (Mount) and then ships the output of
// vdom.Diff as patch batches. The client applies each batch to its copy
// and acknowledges it. Interactions on the client travel back as events
// addressed by traversal index.
//
// # Wire Format
//
// All messages are framed with a 6-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameHello (0x00): session id and protocol version
//   - FrameMount (0x01): full tree, optionally flagged FlagResync
//   - FramePatches (0x02): sequenced patch batch
//   - FrameEvent (0x03): client interaction
//   - FrameAck (0x04): last applied batch
//   - FrameError (0x05): error message
//
// # Encoding
//
//   - Varint: counts, indices and sequence numbers (protobuf-style)
//   - ZigZag: signed integer values
//   - Length-prefixed: strings and byte arrays
//   - Big-endian: fixed-width integers and floats
//
// Attribute values are tagged with their vdom.ValueKind. Opaque values
// travel as their text form, and event handlers travel as bare event
// names; the receiving side gets inert callbacks.
//
// # Patches
//
// Every patch starts with its kind byte (the vdom.PatchKind value) and
// the target's pre-order index in the receiver's tree before the batch:
//
//	[Kind: byte][Index: varint][payload...]
//
// A receiver that meets a kind it does not know must reject the whole
// batch; the decoder reports ErrUnknownPatchKind for this.
//
// # Limits
//
// Decoders bound allocations, collection sizes and nesting depth (see
// Limits) so a hostile peer cannot exhaust memory or the stack. Every
// Decode function returns an *errors.Error carrying a registered code
// with the low-level cause wrapped inside.
//
// # Usage Example
//
//	frame := NewFrame(FramePatches, EncodePatches(&PatchesFrame{
//	    Seq:     seq,
//	    Patches: vdom.Diff(prev, next),
//	}))
//	if err := WriteFrame(w, frame); err != nil {
//	    return err
//	}
package protocol

package protocol

// DefaultWindow is the receive window a client advertises unless told
// otherwise.
const DefaultWindow = 64

// Ack tells the hub which batch a client has applied. LastSeq is the
// sequence number of the last Mount or Patches frame applied; Window is
// how many more batches the client is willing to buffer.
type Ack struct {
	LastSeq uint64
	Window  uint64
}

// NewAck returns an Ack.
func NewAck(lastSeq, window uint64) *Ack {
	return &Ack{LastSeq: lastSeq, Window: window}
}

// EncodeAck encodes ack as two uvarints.
func EncodeAck(ack *Ack) []byte {
	e := NewEncoderWithCap(2 * 10)
	e.WriteUvarint(ack.LastSeq)
	e.WriteUvarint(ack.Window)
	return e.Bytes()
}

// DecodeAck decodes a FrameAck payload.
func DecodeAck(data []byte) (*Ack, error) {
	d := NewDecoder(data)
	var ack Ack
	var err error
	if ack.LastSeq, err = d.ReadUvarint(); err == nil {
		if ack.Window, err = d.ReadUvarint(); err == nil {
			err = d.expectEOF()
		}
	}
	if err != nil {
		return nil, decodeError("ack", err)
	}
	return &ack, nil
}

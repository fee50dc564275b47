package protocol

import "errors"

// ProtocolVersion is the wire protocol version announced in Hello.
const ProtocolVersion uint16 = 1

// ErrVersionMismatch is returned by CheckVersion when the peer speaks a
// different protocol version.
var ErrVersionMismatch = errors.New("protocol: version mismatch")

// Hello is the first frame the server sends on a new connection.
type Hello struct {
	Version   uint16
	SessionID string
}

// NewHello creates a Hello for the current protocol version.
func NewHello(sessionID string) *Hello {
	return &Hello{Version: ProtocolVersion, SessionID: sessionID}
}

// CheckVersion reports ErrVersionMismatch for a foreign version.
func (h *Hello) CheckVersion() error {
	if h.Version != ProtocolVersion {
		return ErrVersionMismatch
	}
	return nil
}

// EncodeHello encodes a Hello to bytes.
func EncodeHello(h *Hello) []byte {
	e := NewEncoderWithCap(4 + len(h.SessionID))
	e.WriteUint16(h.Version)
	e.WriteString(h.SessionID)
	return e.Bytes()
}

// DecodeHello decodes a Hello from bytes.
func DecodeHello(data []byte) (*Hello, error) {
	d := NewDecoder(data)
	version, err := d.ReadUint16()
	if err != nil {
		return nil, decodeError("hello", err)
	}
	sessionID, err := d.ReadString()
	if err == nil {
		err = d.expectEOF()
	}
	if err != nil {
		return nil, decodeError("hello", err)
	}
	return &Hello{Version: version, SessionID: sessionID}, nil
}

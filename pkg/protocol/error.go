package protocol

// ErrorCode identifies the problem reported by a FrameError.
type ErrorCode uint16

const (
	ErrUnknown      ErrorCode = 0x0000
	ErrInvalidFrame ErrorCode = 0x0001 // frame or payload did not decode
	ErrApplyFailed  ErrorCode = 0x0003 // renderer rejected a patch batch; hub resyncs
	ErrOutOfSync    ErrorCode = 0x0004 // sequence gap or stale event; hub resyncs
	ErrEventTarget  ErrorCode = 0x0005 // no listener for the event at that index
	ErrServerError  ErrorCode = 0x0100
)

var errorCodeNames = map[ErrorCode]string{
	ErrInvalidFrame: "InvalidFrame",
	ErrApplyFailed:  "ApplyFailed",
	ErrOutOfSync:    "OutOfSync",
	ErrEventTarget:  "EventTarget",
	ErrServerError:  "ServerError",
}

func (ec ErrorCode) String() string {
	if name, ok := errorCodeNames[ec]; ok {
		return name
	}
	return "Unknown"
}

// Resyncable reports whether the hub answers this code with a resync Mount.
func (ec ErrorCode) Resyncable() bool {
	return ec == ErrApplyFailed || ec == ErrOutOfSync
}

// ErrorMessage is the payload of a FrameError. A fatal error ends the
// session; the receiver closes the connection.
type ErrorMessage struct {
	Code    ErrorCode
	Message string
	Fatal   bool
}

// NewError returns a non-fatal ErrorMessage.
func NewError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{Code: code, Message: message}
}

// NewFatalError returns a fatal ErrorMessage.
func NewFatalError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{Code: code, Message: message, Fatal: true}
}

func (em *ErrorMessage) Error() string {
	s := em.Code.String() + ": " + em.Message
	if em.Fatal {
		return "fatal: " + s
	}
	return s
}

// IsFatal reports whether the error ends the session.
func (em *ErrorMessage) IsFatal() bool { return em.Fatal }

// EncodeErrorMessage encodes em as code (u16), message, fatal flag.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoderWithCap(4 + len(em.Message))
	e.WriteUint16(uint16(em.Code))
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
	return e.Bytes()
}

// DecodeErrorMessage decodes a FrameError payload.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	em := &ErrorMessage{}
	code, err := d.ReadUint16()
	if err == nil {
		em.Code = ErrorCode(code)
		em.Message, err = d.ReadString()
	}
	if err == nil {
		em.Fatal, err = d.ReadBool()
	}
	if err == nil {
		err = d.expectEOF()
	}
	if err != nil {
		return nil, decodeError("error message", err)
	}
	return em, nil
}

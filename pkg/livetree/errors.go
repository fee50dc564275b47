package livetree

import (
	vterrors "github.com/vango-dev/vtree/internal/errors"
)

// Sentinel errors for errors.Is. They match any error carrying the same
// registered code, so callers can test for the class of failure without
// caring about the detail.
var (
	ErrUnsupportedPatchTarget = vterrors.New(vterrors.CodeUnsupportedPatchTarget)
	ErrTypeMismatch           = vterrors.New(vterrors.CodeTypeMismatch)
	ErrIndexOutOfRange        = vterrors.New(vterrors.CodeIndexOutOfRange)
	ErrBatchAborted           = vterrors.New(vterrors.CodePatchBatchAborted)
)

func unsupported(format string, args ...any) error {
	return vterrors.New(vterrors.CodeUnsupportedPatchTarget).WithDetailf(format, args...)
}

func typeMismatch(format string, args ...any) error {
	return vterrors.New(vterrors.CodeTypeMismatch).WithDetailf(format, args...)
}

func outOfRange(format string, args ...any) error {
	return vterrors.New(vterrors.CodeIndexOutOfRange).WithDetailf(format, args...)
}

package cube

import (
	"errors"
	"fmt"
)

// ErrorCode names a distinct Cube failure kind (spec §7). Values are stable
// strings so they can be logged or compared across process boundaries.
type ErrorCode string

const (
	ErrBinaryLength       ErrorCode = "BINARY_LENGTH_ERROR"
	ErrUnknownCubeType    ErrorCode = "UNKNOWN_CUBE_TYPE"
	ErrUnknownFieldType   ErrorCode = "UNKNOWN_FIELD_TYPE"
	ErrFieldSize          ErrorCode = "FIELD_SIZE_ERROR"
	ErrBinaryData         ErrorCode = "BINARY_DATA_ERROR"
	ErrSignature          ErrorCode = "SIGNATURE_ERROR"
	ErrInsufficientPow    ErrorCode = "INSUFFICIENT_DIFFICULTY"
	ErrCrypto             ErrorCode = "CRYPTO_ERROR"
	ErrApiMisuse          ErrorCode = "API_MISUSE_ERROR"
	ErrCube               ErrorCode = "CUBE_ERROR"
)

// Error is the single error type returned by this package and cci/continuation;
// Code identifies the failure kind, Msg carries a short human-readable detail.
type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func newErr(code ErrorCode, msg string) error {
	return &Error{Code: code, Msg: msg}
}

// NewError is the exported constructor used by sibling packages (cci,
// continuation, cryptox, store) so every failure in the core shares one
// error shape.
func NewError(code ErrorCode, msg string) error {
	return newErr(code, msg)
}

// CodeOf extracts the ErrorCode from err if it is (or wraps) a *Error.
func CodeOf(err error) (ErrorCode, bool) {
	var ce *Error
	if !errors.As(err, &ce) || ce == nil {
		return "", false
	}
	return ce.Code, true
}

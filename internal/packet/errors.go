package packet

import (
	"errors"
	"fmt"
)

// MalformedHexError is returned when the cleaned input is not an even
// number of hex digits. No fields are decoded in that case.
type MalformedHexError struct {
	Input   string // input as given by the caller
	Cleaned string // input after normalization
	Err     error  // underlying encoding/hex error
}

// Error implements the error interface
func (e *MalformedHexError) Error() string {
	return fmt.Sprintf("malformed hex packet: %v", e.Err)
}

// Unwrap returns the underlying hex decoding error
func (e *MalformedHexError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err is or wraps a *MalformedHexError
func IsMalformed(err error) bool {
	var malformed *MalformedHexError
	return errors.As(err, &malformed)
}

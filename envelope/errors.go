package envelope

import (
	"errors"
	"fmt"
)

// ErrDecode is matched (errors.Is) by every *DecodeError.
var ErrDecode = errors.New("malformed navigation data")

// DecodeError reports a missing or malformed envelope field.
// Callers recover from it by sending the user back to the catalog.
type DecodeError struct {
	Key string // envelope key, e.g. "ensemble"
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decode %q: %s", e.Key, ErrDecode)
	}
	return fmt.Sprintf("decode %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func decodeErr(key string, err error) error {
	return &DecodeError{Key: key, Err: err}
}

var errMissing = errors.New("missing")

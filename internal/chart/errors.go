package chart

import (
	"errors"
	"fmt"
)

// AddressError reports an index outside its valid range: a path component, a block
// index, a row/col, or an ascend depth. It is a caller contract violation; values are
// never clamped.
type AddressError struct {
	Kind  string
	Value int
	Max   int
}

func (e AddressError) Error() string {
	if e.Max < 0 {
		return fmt.Sprintf("%s out of range: %d (no valid values)", e.Kind, e.Value)
	}
	return fmt.Sprintf("%s out of range: %d (want 0..%d)", e.Kind, e.Value, e.Max)
}

func IsAddressError(err error) bool {
	var ae AddressError
	return errors.As(err, &ae)
}

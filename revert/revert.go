// Package revert defines the failure taxonomy shared by every contract.
// A failed operation leaves no state behind; the returned error wraps
// exactly one of the sentinels below so callers can classify it with
// errors.Is.
package revert

import (
	"errors"
	"fmt"
)

var ErrUnauthorized error = errors.New("unauthorized caller")
var ErrInvalidState error = errors.New("invalid contract state")
var ErrInvalidArgument error = errors.New("invalid argument")
var ErrNotFound error = errors.New("not found")
var ErrWindowExpired error = errors.New("active window expired")
var ErrInsufficientAllowance error = errors.New("insufficient allowance")

// Errorf wraps a taxonomy sentinel with call-site detail.
func Errorf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

package portal

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSize     = errors.New("portal size must be greater than zero")
	ErrUnknownShape    = errors.New("unknown portal shape")
	ErrUnknownPortal   = errors.New("unknown portal")
	ErrDuplicatePortal = errors.New("portal id already registered")
	ErrSelfPair        = errors.New("portal cannot be paired with itself")
)

// InvariantError reports a broken internal invariant. It is raised with panic and is
// never recovered by this package.
type InvariantError struct {
	Portal  string
	Partner string
	Reason  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("portal: invariant violated on %q/%q: %s", e.Portal, e.Partner, e.Reason)
}

package dynamics

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument indicates a caller-supplied value the extractor cannot use.
var ErrInvalidArgument = errors.New("dynamics: invalid argument")

// ArgumentError describes a rejected argument.
type ArgumentError struct {
	Arg    string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("dynamics: invalid argument %s: %s", e.Arg, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

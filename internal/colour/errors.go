package colour

import (
	"errors"
	"fmt"
)

// ErrInsufficientInput is returned when extraction is given no samples.
var ErrInsufficientInput = errors.New("insufficient input: at least one colour sample is required")

// ArityError reports a colour sequence of the wrong length.
type ArityError struct {
	Got  int
	Want int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("expected exactly %d colours, got %d", e.Want, e.Got)
}

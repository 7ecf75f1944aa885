package mingru

import (
	"errors"
	"fmt"

	"github.com/born-ml/mingru/internal/tensor"
)

// Common errors. Use errors.Is to match them; ShapeError unwraps to
// ErrShapeMismatch.
var (
	ErrShapeMismatch          = errors.New("shape mismatch")
	ErrInvalidSequenceLength  = errors.New("sequence length must be at least 1")
	ErrNonPositiveHiddenState = errors.New("hidden state must be strictly positive and finite")
)

// ShapeError provides detailed information about shape validation failures.
type ShapeError struct {
	Op      string       // Operation that rejected the input (e.g., "evaluate")
	Want    tensor.Shape // Expected shape, if known
	Got     tensor.Shape // Actual shape
	Details string       // Additional details
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Want != nil {
		return fmt.Sprintf("%s: %s: expected %v, got %v", e.Op, e.Details, e.Want, e.Got)
	}
	return fmt.Sprintf("%s: %s: got %v", e.Op, e.Details, e.Got)
}

// Unwrap returns ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

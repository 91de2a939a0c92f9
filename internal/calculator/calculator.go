package calculator

import (
	"errors"
	"fmt"
)

// Supported operation names. Matching is exact and case sensitive.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
	OpDivide   = "divide"
)

// ErrDivisionByZero is the only business-rule rejection the calculator
// produces; everything else reaching it is a caller bug.
var ErrDivisionByZero = errors.New("division by zero")

// Calculate applies one of the four supported operations to its operands.
// Pure IEEE-754 float64 arithmetic, no rounding or formatting. The
// validator is responsible for rejecting unknown operations before this
// point; an unknown operation here still returns an error rather than
// panicking.
func Calculate(operation string, a, b float64) (float64, error) {
	switch operation {
	case OpAdd:
		return a + b, nil
	case OpSubtract:
		return a - b, nil
	case OpMultiply:
		return a * b, nil
	case OpDivide:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("unknown operation %q", operation)
	}
}

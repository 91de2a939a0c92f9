package calculator

import (
	"encoding/json"
	"math"
	"strconv"
)

const operandMessage = "must be a finite number"

// Validate checks a decoded request against the accepted shape and
// returns the parsed input together with all field-level violations. The
// caller must check the violation list before invoking Calculate; an
// empty list means the input is safe to compute. No side effects.
func Validate(req ComputeRequest) (ComputeInput, []FieldError) {
	var (
		input      ComputeInput
		violations []FieldError
	)

	op, ok := parseOperation(req.Operation)
	if !ok {
		violations = append(violations, FieldError{
			Field:   "operation",
			Message: `must be one of "add", "subtract", "multiply", "divide"`,
		})
	}
	input.Operation = op

	if v, ok := parseOperand(req.Operand1); ok {
		input.Operand1 = v
	} else {
		violations = append(violations, FieldError{Field: "operand1", Message: operandMessage})
	}

	if v, ok := parseOperand(req.Operand2); ok {
		input.Operand2 = v
	} else {
		violations = append(violations, FieldError{Field: "operand2", Message: operandMessage})
	}

	return input, violations
}

func parseOperation(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var op string
	if err := json.Unmarshal(raw, &op); err != nil {
		return "", false
	}
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return op, true
	}
	return "", false
}

// parseOperand accepts a JSON number or a numeric string and requires the
// value to be finite. Missing fields, other JSON types, and strings such
// as "NaN" or "Infinity" are rejected.
func parseOperand(raw json.RawMessage) (float64, bool) {
	// json.Unmarshal treats null as a no-op for both float64 and string
	// targets, so it has to be rejected up front.
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, isFinite(n)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, isFinite(n)
}

func isFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

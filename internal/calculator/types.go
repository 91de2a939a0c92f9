package calculator

import (
	"encoding/json"

	"calc-history/internal/history"
)

// ComputeRequest is the JSON body for POST /calculator/compute. Fields are
// kept raw so the validator can report a violation per field instead of
// failing the whole decode on the first type mismatch.
type ComputeRequest struct {
	Operation json.RawMessage `json:"operation"`
	Operand1  json.RawMessage `json:"operand1"`
	Operand2  json.RawMessage `json:"operand2"`
}

// ComputeInput is a validated request: a known operation and two finite
// operands. Only the validator produces it.
type ComputeInput struct {
	Operation string
	Operand1  float64
	Operand2  float64
}

// FieldError is one field-level validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ComputeResponse is the JSON response for a persisted calculation.
type ComputeResponse struct {
	Operation string  `json:"operation"`
	Operand1  float64 `json:"operand1"`
	Operand2  float64 `json:"operand2"`
	Result    float64 `json:"result"`
	ID        int64   `json:"id"`
}

// ValidationResponse enumerates all violations in a rejected request.
type ValidationResponse struct {
	Errors    []FieldError `json:"errors"`
	RequestID string       `json:"request_id,omitempty"`
}

// HistoryResponse is the JSON response for GET /calculator/history,
// newest first.
type HistoryResponse struct {
	History []history.Record `json:"history"`
}

// Package history persists completed calculations as an append-only log.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable marks a storage-layer failure. Callers use errors.Is to
// distinguish it from validation or computation errors; the wrapped cause
// stays out of HTTP responses.
var ErrUnavailable = errors.New("history storage unavailable")

// Record is one completed calculation. Immutable once written: the store
// assigns ID and CreatedAt, and records are never updated or deleted.
type Record struct {
	ID        int64     `json:"id"`
	Operation string    `json:"operation"`
	Operand1  float64   `json:"operand1"`
	Operand2  float64   `json:"operand2"`
	Result    float64   `json:"result"`
	CreatedAt time.Time `json:"timestamp"`
}

// Store is the append-only history log.
//
// Append must be durable before it returns: a crash immediately after a
// successful Append must not lose the record. IDs are strictly increasing
// and reflect the global append order, so concurrent appends never share
// an identifier. ListRecent returns up to limit records ordered newest
// first by ID and never mutates the log.
type Store interface {
	Append(ctx context.Context, operation string, operand1, operand2, result float64) (Record, error)
	ListRecent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"calc-history/internal/history"
	"calc-history/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// historyLimit caps GET /calculator/history responses.
const historyLimit = 100

// Handler serves the compute and history endpoints. The history store is
// injected so tests can swap in a temporary or failing backend.
type Handler struct {
	store history.Store
}

// NewHandler returns a Handler backed by the given store.
func NewHandler(store history.Store) *Handler {
	return &Handler{store: store}
}

// Compute handles POST /calculator/compute: validate, calculate, persist,
// acknowledge. The result is only returned once the record is durable —
// a store failure turns a successful computation into a 503.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.compute",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "compute", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	input, violations := Validate(req)
	if len(violations) > 0 {
		h.writeValidationErrors(ctx, span, logger, w, requestID, violations)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.operation", input.Operation),
		attribute.Float64("calculator.operand.1", input.Operand1),
		attribute.Float64("calculator.operand.2", input.Operand2),
	)

	start := time.Now()
	result, err := Calculate(input.Operation, input.Operand1, input.Operand2)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		if errors.Is(err, ErrDivisionByZero) {
			observability.RecordError(ctx, span, logger, errorCounter, input.Operation, "division by zero", err, http.StatusUnprocessableEntity, w)
			return
		}
		// The validator owns operation rejection; reaching this branch
		// is a bug, not a user-facing condition.
		observability.RecordError(ctx, span, logger, errorCounter, input.Operation, "internal error", err, http.StatusInternalServerError, w)
		return
	}

	record, err := h.store.Append(ctx, input.Operation, input.Operand1, input.Operand2, result)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, input.Operation, "storage unavailable", err, http.StatusServiceUnavailable, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", input.Operation))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result, attrs)

	span.AddEvent("computation.persisted", trace.WithAttributes(
		attribute.Float64("result", result),
		attribute.Int64("record.id", record.ID),
	))
	span.SetAttributes(attribute.Float64("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculation persisted",
		zap.String("operation", input.Operation),
		zap.Float64("operand1", input.Operand1),
		zap.Float64("operand2", input.Operand2),
		zap.Float64("result", result),
		zap.Int64("record_id", record.ID),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	resp := ComputeResponse{
		Operation: input.Operation,
		Operand1:  input.Operand1,
		Operand2:  input.Operand2,
		Result:    result,
		ID:        record.ID,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// History handles GET /calculator/history: the most recent calculations,
// newest first, capped at historyLimit. The read path never touches the
// validator or the calculator.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.history",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	records, err := h.store.ListRecent(ctx, historyLimit)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "history", "storage unavailable", err, http.StatusServiceUnavailable, w)
		return
	}

	historyCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "history")))

	span.SetAttributes(attribute.Int("history.count", len(records)))
	span.SetStatus(codes.Ok, "")

	logger.Info("history served",
		zap.Int("count", len(records)),
		zap.String("request_id", requestID),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HistoryResponse{History: records})
}

// writeValidationErrors reports every violation in one response. Nothing
// is computed or persisted for a rejected request.
func (h *Handler) writeValidationErrors(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, requestID string, violations []FieldError) {
	span.SetStatus(codes.Error, "validation failed")
	span.SetAttributes(attribute.Int("validation.violations", len(violations)))

	errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "compute")))

	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	logger.Warn("request rejected by validation",
		zap.Strings("fields", fields),
		zap.String("request_id", requestID),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ValidationResponse{
		Errors:    violations,
		RequestID: requestID,
	})
}

package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrTool      = "tool"
	attrResult    = "result"
)

// Status values for metric labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Booking outcome values for the bookings_total metric.
const (
	// BookingBooked counts bookings the backend accepted.
	BookingBooked = "booked"
	// BookingRejected counts bookings the backend refused at commit time.
	BookingRejected = "rejected"
	// BookingRefused counts bookings blocked before reaching the backend
	// because the slot was never offered to the user.
	BookingRefused = "refused"
)

// Metrics provides methods for recording observability metrics. All methods
// are no-ops on a nil or uninitialized receiver.
type Metrics struct {
	activeSessions metric.Int64UpDownCounter

	turnsTotal   metric.Int64Counter
	turnDuration metric.Float64Histogram

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	calendarOperationsTotal   metric.Int64Counter
	calendarOperationDuration metric.Float64Histogram

	bookingsTotal metric.Int64Counter
}

// NewMetrics creates a Metrics instance with all instruments registered on
// the meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.activeSessions, err = meter.Int64UpDownCounter(
		"active_sessions",
		metric.WithDescription("Number of active chat sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	m.turnsTotal, err = meter.Int64Counter(
		"chat_turns_total",
		metric.WithDescription("Total number of conversational turns"),
		metric.WithUnit("{turn}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat_turns_total counter: %w", err)
	}

	m.turnDuration, err = meter.Float64Histogram(
		"chat_turn_duration_seconds",
		metric.WithDescription("Conversational turn duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat_turn_duration_seconds histogram: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"tool_invocations_total",
		metric.WithDescription("Total number of agent tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"tool_duration_seconds",
		metric.WithDescription("Agent tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool_duration_seconds histogram: %w", err)
	}

	m.calendarOperationsTotal, err = meter.Int64Counter(
		"calendar_operations_total",
		metric.WithDescription("Total number of calendar backend operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_operations_total counter: %w", err)
	}

	m.calendarOperationDuration, err = meter.Float64Histogram(
		"calendar_operation_duration_seconds",
		metric.WithDescription("Calendar backend operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_operation_duration_seconds histogram: %w", err)
	}

	m.bookingsTotal, err = meter.Int64Counter(
		"bookings_total",
		metric.WithDescription("Total number of booking attempts by outcome"),
		metric.WithUnit("{booking}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bookings_total counter: %w", err)
	}

	return m, nil
}

// IncrementActiveSessions increments the active sessions counter.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions decrements the active sessions counter.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, -1)
}

// RecordTurn records one conversational turn with its outcome and duration.
func (m *Metrics) RecordTurn(ctx context.Context, duration time.Duration, err error) {
	if m == nil || m.turnsTotal == nil || m.turnDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, statusFor(err)),
	}

	m.turnsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.turnDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocation records an agent tool invocation.
func (m *Metrics) RecordToolInvocation(ctx context.Context, tool string, duration time.Duration, err error) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, tool),
		attribute.String(attrStatus, statusFor(err)),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordCalendarOperation records a calendar backend operation such as a
// freebusy query or an event insert.
func (m *Metrics) RecordCalendarOperation(ctx context.Context, operation string, duration time.Duration, err error) {
	if m == nil || m.calendarOperationsTotal == nil || m.calendarOperationDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, statusFor(err)),
	}

	m.calendarOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.calendarOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordBooking records a booking attempt outcome. The result should be one
// of BookingBooked, BookingRejected or BookingRefused.
func (m *Metrics) RecordBooking(ctx context.Context, result string) {
	if m == nil || m.bookingsTotal == nil {
		return
	}

	m.bookingsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}

func statusFor(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

package availability

import (
	"errors"
	"time"
)

// Errors returned for invalid engine inputs. These are programming or
// caller-input errors and are checked before any scanning happens.
var (
	ErrInvalidWindow   = errors.New("window start must be before window end")
	ErrInvalidDuration = errors.New("slot duration must be positive")
	ErrInvalidStride   = errors.New("scan stride must be positive")
)

// Window is a bounded time range to search for free slots.
type Window struct {
	Start time.Time
	End   time.Time
}

// Interval is an occupied period reported by the calendar backend.
// Intervals may overlap each other and arrive in any order.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Slot is a candidate or booked meeting period of fixed duration.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Result holds the outcome of a free-slot computation. Free is ordered
// chronologically and pairwise non-overlapping; Busy is the input interval
// list, unmodified, kept so callers can display both sides.
type Result struct {
	Free []Slot
	Busy []Interval
}

// ComputeFreeSlots enumerates candidate slots of the given duration starting
// at window.Start and advancing by stride, and accepts every candidate that
// overlaps no busy interval. The overlap test uses half-open semantics: a
// slot that ends exactly when a busy period starts (or starts exactly when
// one ends) is not a conflict.
//
// Duration and stride are separate parameters so the slot length can change
// without changing the scan granularity. Inputs are never mutated.
func ComputeFreeSlots(window Window, busy []Interval, duration, stride time.Duration) (Result, error) {
	if !window.Start.Before(window.End) {
		return Result{}, ErrInvalidWindow
	}
	if duration <= 0 {
		return Result{}, ErrInvalidDuration
	}
	if stride <= 0 {
		return Result{}, ErrInvalidStride
	}

	var free []Slot
	for cursor := window.Start; !cursor.Add(duration).After(window.End); cursor = cursor.Add(stride) {
		candidate := Slot{Start: cursor, End: cursor.Add(duration)}
		if !overlapsAny(candidate, busy) {
			free = append(free, candidate)
		}
	}

	return Result{Free: free, Busy: busy}, nil
}

// overlapsAny reports whether the candidate slot overlaps any busy interval.
// Every interval is tested independently, so unsorted or mutually overlapping
// busy lists are handled correctly.
func overlapsAny(candidate Slot, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Start.Before(b.End) && candidate.End.After(b.Start) {
			return true
		}
	}
	return false
}

package availability

import (
	"testing"
	"time"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func at(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2025, time.May, 30, hour, min, 0, 0, ist)
}

func TestComputeFreeSlots_MorningWithOneBusyPeriod(t *testing.T) {
	// 09:00-12:00 with 09:30-10:00 busy leaves five 30-minute slots.
	window := Window{Start: at(t, 9, 0), End: at(t, 12, 0)}
	busy := []Interval{{Start: at(t, 9, 30), End: at(t, 10, 0)}}

	result, err := ComputeFreeSlots(window, busy, 30*time.Minute, 30*time.Minute)
	if err != nil {
		t.Fatalf("ComputeFreeSlots returned error: %v", err)
	}

	expected := []Slot{
		{Start: at(t, 9, 0), End: at(t, 9, 30)},
		{Start: at(t, 10, 0), End: at(t, 10, 30)},
		{Start: at(t, 10, 30), End: at(t, 11, 0)},
		{Start: at(t, 11, 0), End: at(t, 11, 30)},
		{Start: at(t, 11, 30), End: at(t, 12, 0)},
	}

	if len(result.Free) != len(expected) {
		t.Fatalf("Expected %d free slots, got %d: %v", len(expected), len(result.Free), result.Free)
	}
	for i, want := range expected {
		if !result.Free[i].Start.Equal(want.Start) || !result.Free[i].End.Equal(want.End) {
			t.Errorf("Slot %d: expected %v-%v, got %v-%v",
				i, want.Start, want.End, result.Free[i].Start, result.Free[i].End)
		}
	}
}

func TestComputeFreeSlots_TouchingIntervalsDoNotConflict(t *testing.T) {
	// Half-open semantics: a busy period ending exactly at a candidate's
	// start, or starting exactly at its end, does not exclude the slot.
	window := Window{Start: at(t, 9, 0), End: at(t, 10, 0)}
	busy := []Interval{
		{Start: at(t, 8, 0), End: at(t, 9, 0)},
		{Start: at(t, 10, 0), End: at(t, 11, 0)},
	}

	result, err := ComputeFreeSlots(window, busy, 30*time.Minute, 30*time.Minute)
	if err != nil {
		t.Fatalf("ComputeFreeSlots returned error: %v", err)
	}
	if len(result.Free) != 2 {
		t.Errorf("Expected 2 free slots with touching busy intervals, got %d", len(result.Free))
	}
}

func TestComputeFreeSlots_PartialOverlapExcludes(t *testing.T) {
	tests := []struct {
		name string
		busy Interval
	}{
		{"overlaps start", Interval{Start: at(t, 8, 45), End: at(t, 9, 15)}},
		{"overlaps end", Interval{Start: at(t, 9, 15), End: at(t, 9, 45)}},
		{"contained in slot", Interval{Start: at(t, 9, 10), End: at(t, 9, 20)}},
		{"contains slot", Interval{Start: at(t, 8, 0), End: at(t, 11, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := Window{Start: at(t, 9, 0), End: at(t, 9, 30)}
			result, err := ComputeFreeSlots(window, []Interval{tt.busy}, 30*time.Minute, 30*time.Minute)
			if err != nil {
				t.Fatalf("ComputeFreeSlots returned error: %v", err)
			}
			if len(result.Free) != 0 {
				t.Errorf("Expected no free slots, got %v", result.Free)
			}
		})
	}
}

func TestComputeFreeSlots_UnsortedOverlappingBusy(t *testing.T) {
	window := Window{Start: at(t, 9, 0), End: at(t, 11, 0)}
	// Out of order and mutually overlapping; together they cover 09:30-10:30.
	busy := []Interval{
		{Start: at(t, 10, 0), End: at(t, 10, 30)},
		{Start: at(t, 9, 30), End: at(t, 10, 15)},
	}

	result, err := ComputeFreeSlots(window, busy, 30*time.Minute, 30*time.Minute)
	if err != nil {
		t.Fatalf("ComputeFreeSlots returned error: %v", err)
	}

	expected := []Slot{
		{Start: at(t, 9, 0), End: at(t, 9, 30)},
		{Start: at(t, 10, 30), End: at(t, 11, 0)},
	}
	if len(result.Free) != len(expected) {
		t.Fatalf("Expected %d free slots, got %d", len(expected), len(result.Free))
	}
	for i, want := range expected {
		if !result.Free[i].Start.Equal(want.Start) {
			t.Errorf("Slot %d: expected start %v, got %v", i, want.Start, result.Free[i].Start)
		}
	}
}

func TestComputeFreeSlots_SlotProperties(t *testing.T) {
	window := Window{Start: at(t, 9, 0), End: at(t, 18, 0)}
	busy := []Interval{
		{Start: at(t, 9, 45), End: at(t, 10, 10)},
		{Start: at(t, 13, 0), End: at(t, 14, 0)},
		{Start: at(t, 13, 30), End: at(t, 15, 5)},
	}
	duration := 30 * time.Minute

	result, err := ComputeFreeSlots(window, busy, duration, 30*time.Minute)
	if err != nil {
		t.Fatalf("ComputeFreeSlots returned error: %v", err)
	}

	for i, slot := range result.Free {
		if slot.Start.Before(window.Start) || slot.End.After(window.End) {
			t.Errorf("Slot %d not contained in window: %v-%v", i, slot.Start, slot.End)
		}
		if slot.End.Sub(slot.Start) != duration {
			t.Errorf("Slot %d has duration %v, expected %v", i, slot.End.Sub(slot.Start), duration)
		}
		if i > 0 && result.Free[i-1].End.After(slot.Start) {
			t.Errorf("Slots %d and %d overlap or are out of order", i-1, i)
		}
		for _, b := range busy {
			if slot.Start.Before(b.End) && slot.End.After(b.Start) {
				t.Errorf("Slot %d overlaps busy interval %v-%v", i, b.Start, b.End)
			}
		}
	}
}

func TestComputeFreeSlots_Idempotent(t *testing.T) {
	window := Window{Start: at(t, 9, 0), End: at(t, 12, 0)}
	busy := []Interval{{Start: at(t, 10, 0), End: at(t, 10, 45)}}

	first, err := ComputeFreeSlots(window, busy, 30*time.Minute, 30*time.Minute)
	if err != nil {
		t.Fatalf("first call returned error: %v", err)
	}
	second, err := ComputeFreeSlots(window, busy, 30*time.Minute, 30*time.Minute)
	if err != nil {
		t.Fatalf("second call returned error: %v", err)
	}

	if len(first.Free) != len(second.Free) {
		t.Fatalf("Call results differ: %d vs %d slots", len(first.Free), len(second.Free))
	}
	for i := range first.Free {
		if !first.Free[i].Start.Equal(second.Free[i].Start) || !first.Free[i].End.Equal(second.Free[i].End) {
			t.Errorf("Slot %d differs between calls", i)
		}
	}
}

func TestComputeFreeSlots_BusyReturnedUnmodified(t *testing.T) {
	window := Window{Start: at(t, 9, 0), End: at(t, 11, 0)}
	busy := []Interval{
		{Start: at(t, 10, 0), End: at(t, 10, 30)},
		{Start: at(t, 9, 30), End: at(t, 10, 0)},
	}

	result, err := ComputeFreeSlots(window, busy, 30*time.Minute, 30*time.Minute)
	if err != nil {
		t.Fatalf("ComputeFreeSlots returned error: %v", err)
	}
	if len(result.Busy) != 2 {
		t.Fatalf("Expected busy list of 2, got %d", len(result.Busy))
	}
	// Original ordering preserved, not sorted.
	if !result.Busy[0].Start.Equal(at(t, 10, 0)) || !result.Busy[1].Start.Equal(at(t, 9, 30)) {
		t.Error("Busy intervals should be returned in input order")
	}
}

func TestComputeFreeSlots_StrideDifferentFromDuration(t *testing.T) {
	// Hour-long slots scanned on a 30-minute stride produce overlapping
	// candidates; acceptance is still per the overlap test.
	window := Window{Start: at(t, 9, 0), End: at(t, 11, 0)}

	result, err := ComputeFreeSlots(window, nil, time.Hour, 30*time.Minute)
	if err != nil {
		t.Fatalf("ComputeFreeSlots returned error: %v", err)
	}
	if len(result.Free) != 3 {
		t.Errorf("Expected 3 candidates (09:00, 09:30, 10:00), got %d", len(result.Free))
	}
}

func TestComputeFreeSlots_WindowTooSmall(t *testing.T) {
	window := Window{Start: at(t, 9, 0), End: at(t, 9, 15)}

	result, err := ComputeFreeSlots(window, nil, 30*time.Minute, 30*time.Minute)
	if err != nil {
		t.Fatalf("ComputeFreeSlots returned error: %v", err)
	}
	if len(result.Free) != 0 {
		t.Errorf("Expected no slots in a 15-minute window, got %d", len(result.Free))
	}
}

func TestComputeFreeSlots_InvalidInputs(t *testing.T) {
	valid := Window{Start: at(t, 9, 0), End: at(t, 12, 0)}

	tests := []struct {
		name     string
		window   Window
		duration time.Duration
		stride   time.Duration
		wantErr  error
	}{
		{"start equals end", Window{Start: at(t, 9, 0), End: at(t, 9, 0)}, 30 * time.Minute, 30 * time.Minute, ErrInvalidWindow},
		{"start after end", Window{Start: at(t, 12, 0), End: at(t, 9, 0)}, 30 * time.Minute, 30 * time.Minute, ErrInvalidWindow},
		{"zero duration", valid, 0, 30 * time.Minute, ErrInvalidDuration},
		{"negative duration", valid, -time.Minute, 30 * time.Minute, ErrInvalidDuration},
		{"zero stride", valid, 30 * time.Minute, 0, ErrInvalidStride},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeFreeSlots(tt.window, nil, tt.duration, tt.stride)
			if err != tt.wantErr {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

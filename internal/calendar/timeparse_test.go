package calendar

import (
	"errors"
	"testing"
	"time"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func testNow() time.Time {
	return time.Date(2025, time.May, 30, 9, 0, 0, 0, ist)
}

func TestParse_RFC3339(t *testing.T) {
	parser := NewTimeParser(ist)

	got, err := parser.Parse("2025-05-30T14:00:00+05:30", testNow())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	want := time.Date(2025, time.May, 30, 14, 0, 0, 0, ist)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestParse_MachineLayouts(t *testing.T) {
	parser := NewTimeParser(ist)
	want := time.Date(2025, time.May, 30, 14, 0, 0, 0, ist)

	tests := []struct {
		name string
		text string
	}{
		{name: "bare ISO with seconds", text: "2025-05-30T14:00:00"},
		{name: "space separated with seconds", text: "2025-05-30 14:00:00"},
		{name: "space separated without seconds", text: "2025-05-30 14:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Parse(tt.text, testNow())
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("Expected %v, got %v", want, got)
			}
		})
	}
}

func TestParse_NaturalLanguage(t *testing.T) {
	parser := NewTimeParser(ist)

	got, err := parser.Parse("tomorrow at 3pm", testNow())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if got.Day() != 31 {
		t.Errorf("Expected tomorrow (day 31), got day %d", got.Day())
	}
	if got.Hour() != 15 {
		t.Errorf("Expected 15:00, got hour %d", got.Hour())
	}
}

func TestParse_NaturalLanguageLocation(t *testing.T) {
	parser := NewTimeParser(ist)

	got, err := parser.Parse("today at 11am", testNow())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got.Location().String() != ist.String() {
		t.Errorf("Expected location %v, got %v", ist, got.Location())
	}
}

func TestParse_Unparseable(t *testing.T) {
	parser := NewTimeParser(ist)

	tests := []struct {
		name string
		text string
	}{
		{name: "gibberish", text: "florble glorp"},
		{name: "empty", text: ""},
		{name: "whitespace only", text: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.text, testNow())
			if !errors.Is(err, ErrUnparseableTime) {
				t.Errorf("Expected ErrUnparseableTime, got %v", err)
			}
		})
	}
}

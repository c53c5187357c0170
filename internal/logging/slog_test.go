package logging

import (
	"strings"
	"testing"
)

func TestAnonymizeSessionID(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"uuid style", "2d8f6a1c-9f4b-4f1e-8a7d-0c1b2e3f4a5b"},
		{"opaque token", "conn-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnonymizeSessionID(tt.id)
			if !strings.HasPrefix(result, "session:") {
				t.Errorf("Expected session: prefix, got %s", result)
			}
			if strings.Contains(result, tt.id) {
				t.Errorf("Anonymized value must not contain the raw id: %s", result)
			}
			// Stable: same input, same hash.
			if again := AnonymizeSessionID(tt.id); again != result {
				t.Errorf("Expected stable hash, got %s and %s", result, again)
			}
		})
	}
}

func TestAnonymizeSessionID_Empty(t *testing.T) {
	if result := AnonymizeSessionID(""); result != "" {
		t.Errorf("Expected empty string for empty id, got %s", result)
	}
}

func TestAnonymizeSessionID_DistinctIDs(t *testing.T) {
	a := AnonymizeSessionID("session-a")
	b := AnonymizeSessionID("session-b")
	if a == b {
		t.Error("Different session ids should hash to different values")
	}
}

func TestErr_NilError(t *testing.T) {
	attr := Err(nil)
	// A nil error produces an empty group that slog omits from output.
	if attr.Key != "" {
		t.Errorf("Expected empty attribute key for nil error, got %q", attr.Key)
	}
}

func TestStatusValues(t *testing.T) {
	if StatusSuccess == StatusError {
		t.Error("Status constants must be distinct")
	}
	attr := Status(StatusSuccess)
	if attr.Key != KeyStatus {
		t.Errorf("Expected key %q, got %q", KeyStatus, attr.Key)
	}
}

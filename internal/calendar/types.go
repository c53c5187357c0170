package calendar

import (
	"github.com/zarahq/zara/internal/availability"
)

// EventMetadata is the fixed metadata applied to every booking event.
type EventMetadata struct {
	Summary     string
	Description string
}

// Booking confirms a created calendar event for a slot.
type Booking struct {
	Slot availability.Slot

	// EventID is the backend's identifier for the created event.
	EventID string

	// MeetLink is the auto-generated meeting link, if the backend produced
	// one.
	MeetLink string

	// HumanSummary is the confirmation sentence shown to the user.
	HumanSummary string
}

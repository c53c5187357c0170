package calendar

import "errors"

// Gateway error taxonomy. Callers branch with errors.Is; the dialogue agent
// turns most of these into clarifying replies, while ErrBackendUnavailable
// propagates as a structured error turn.
var (
	// ErrInvalidWindow is returned when a window's start is not before its
	// end. Rejected before any backend call.
	ErrInvalidWindow = errors.New("window start must be before window end")

	// ErrBackendUnavailable indicates a network or auth failure reaching the
	// calendar backend. Not fatal to the session.
	ErrBackendUnavailable = errors.New("calendar backend unavailable")

	// ErrSlotRejected indicates the backend reported a conflict at booking
	// time: the slot was taken between the free/busy snapshot and the
	// commit. Surfaced to the user, never retried silently.
	ErrSlotRejected = errors.New("slot rejected by calendar backend")

	// ErrUnparseableTime indicates a time expression could not be understood
	// as either a machine timestamp or a natural-language phrase. Callers
	// must ask the user to clarify, never guess.
	ErrUnparseableTime = errors.New("could not understand the time expression")
)

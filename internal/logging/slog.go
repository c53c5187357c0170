package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeySession   = "session"
	KeyTool      = "tool"
	KeyDuration  = "duration"
	KeyStatus    = "status"
	KeyError     = "error"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithSession returns a logger with the anonymized session attribute set.
func WithSession(logger *slog.Logger, sessionID string) *slog.Logger {
	return logger.With(slog.String(KeySession, AnonymizeSessionID(sessionID)))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Session returns a slog attribute with the anonymized session identifier.
func Session(sessionID string) slog.Attr {
	return slog.String(KeySession, AnonymizeSessionID(sessionID))
}

// Duration returns a slog attribute for an elapsed duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration(KeyDuration, d)
}

// Err returns a slog attribute for an error. If err is nil, returns an empty
// Group attribute that will be omitted from output, so Err(maybeNilErr) is
// always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeSessionID returns a short hashed representation of a session
// identifier for logging. Transport-supplied identifiers may encode client
// details, so they are never logged verbatim; the hash still allows
// correlating entries for the same session.
func AnonymizeSessionID(id string) string {
	if id == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(id))
	return "session:" + hex.EncodeToString(hash[:8])
}

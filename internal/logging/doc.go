// Package logging provides structured logging helpers built on log/slog.
//
// It defines the canonical attribute keys used across the codebase so log
// entries stay consistent and queryable, plus helpers for anonymizing
// session identifiers before they reach log output.
package logging

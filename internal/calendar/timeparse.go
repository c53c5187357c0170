package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// machineLayouts are tried before natural-language parsing. RFC3339 carries
// its own offset; the bare layouts are interpreted in the configured
// location.
var machineLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// TimeParser resolves time expressions, machine-formatted or natural
// language, into concrete times in a fixed location.
type TimeParser struct {
	parser   *when.Parser
	location *time.Location
}

// NewTimeParser creates a parser with English and common natural-language
// rules.
func NewTimeParser(location *time.Location) *TimeParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &TimeParser{
		parser:   w,
		location: location,
	}
}

// Parse resolves a time expression relative to now. Machine formats are
// tried first; natural-language phrases like "tomorrow 3pm" are resolved
// against now in the parser's location. An expression that resolves to
// nothing returns ErrUnparseableTime.
func (p *TimeParser) Parse(text string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: empty expression", ErrUnparseableTime)
	}

	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t.In(p.location), nil
	}
	for _, layout := range machineLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, p.location); err == nil {
			return t, nil
		}
	}

	result, err := p.parser.Parse(trimmed, now.In(p.location))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnparseableTime, text, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableTime, text)
	}
	return result.Time.In(p.location), nil
}

package availability

import (
	"fmt"
	"strings"
	"time"
)

// slotTimeFormat matches the display format the assistant was designed
// around: "30 May 09:00 AM".
const slotTimeFormat = "02 Jan 03:04 PM"

// FormatResult renders a Result as the busy/free text block handed to the
// language model. Contiguous free slots are clubbed into a single run so the
// assistant can say "available between 11 AM and 6 PM" instead of listing
// every half hour.
func FormatResult(r Result, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString("BUSY SLOTS:\n")
	sb.WriteString(formatIntervals(r.Busy, loc))
	sb.WriteString("\n\nFREE SLOTS:\n")
	sb.WriteString(formatRuns(GroupRuns(r.Free), loc))
	return sb.String()
}

// GroupRuns merges chronologically adjacent slots (previous end == next
// start) into contiguous runs. Non-adjacent slots become single-slot runs.
func GroupRuns(slots []Slot) []Interval {
	var runs []Interval
	for _, s := range slots {
		if n := len(runs); n > 0 && runs[n-1].End.Equal(s.Start) {
			runs[n-1].End = s.End
			continue
		}
		runs = append(runs, Interval{Start: s.Start, End: s.End})
	}
	return runs
}

func formatIntervals(intervals []Interval, loc *time.Location) string {
	if len(intervals) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		lines = append(lines, formatRange(iv.Start, iv.End, loc))
	}
	return strings.Join(lines, "\n")
}

func formatRuns(runs []Interval, loc *time.Location) string {
	if len(runs) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(runs))
	for _, run := range runs {
		lines = append(lines, formatRange(run.Start, run.End, loc))
	}
	return strings.Join(lines, "\n")
}

func formatRange(start, end time.Time, loc *time.Location) string {
	return fmt.Sprintf("%s to %s",
		start.In(loc).Format(slotTimeFormat),
		end.In(loc).Format("03:04 PM"))
}

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zarahq/zara/internal/availability"
	"github.com/zarahq/zara/internal/calendar"
	"github.com/zarahq/zara/internal/instrumentation"
	"github.com/zarahq/zara/internal/logging"
	"github.com/zarahq/zara/internal/session"
)

// CalendarGateway is the slice of the calendar client the agent needs.
type CalendarGateway interface {
	FetchBusy(ctx context.Context, window availability.Window) ([]availability.Interval, error)
	Book(ctx context.Context, slot availability.Slot) (*calendar.Booking, error)
}

// TimeParser resolves user-supplied time expressions.
type TimeParser interface {
	Parse(text string, now time.Time) (time.Time, error)
}

// Config carries the scheduling parameters for an agent.
type Config struct {
	Location     *time.Location
	SlotDuration time.Duration
	ScanStride   time.Duration

	// DefaultWindow is the lookahead used when the user names no window.
	DefaultWindow time.Duration

	// MaxToolRounds bounds decide/execute cycles within one turn.
	MaxToolRounds int

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Agent runs the decide/execute loop for one session. It is stateful: the
// free slots it last computed, and when it computed them, gate every
// booking. Create one agent per session and never share it.
type Agent struct {
	decider Decider
	gateway CalendarGateway
	parser  TimeParser
	cfg     Config
	logger  *slog.Logger
	metrics *instrumentation.Metrics

	// Booking guard state. offeredFree is the free list from the most
	// recent availability query; offeredAtTurns is the history length when
	// that query ran. A booking requires the history to have grown since,
	// meaning the free list reached the user in a completed turn.
	offeredFree    []availability.Slot
	offeredAtTurns int
	hasOffer       bool
}

// New creates an agent. Metrics may be nil.
func New(decider Decider, gateway CalendarGateway, parser TimeParser, cfg Config, logger *slog.Logger, metrics *instrumentation.Metrics) *Agent {
	if cfg.DefaultWindow <= 0 {
		cfg.DefaultWindow = 72 * time.Hour
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = 4
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		decider: decider,
		gateway: gateway,
		parser:  parser,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Respond produces the assistant reply for one user input. It loops between
// the decider and tool execution until the decider answers in plain text.
// A calendar backend outage aborts the turn with calendar.ErrBackendUnavailable;
// every other tool problem is reported back to the decider as a tool result
// so it can explain and recover in conversation.
func (a *Agent) Respond(ctx context.Context, history []session.Turn, input string) (string, error) {
	req := Request{
		System:  systemPrompt(a.cfg.Now().In(a.cfg.Location), a.cfg.SlotDuration),
		History: history,
		Input:   input,
		Tools:   toolCatalog(),
	}

	for round := 0; round < a.cfg.MaxToolRounds; round++ {
		decision, err := a.decider.Decide(ctx, req)
		if err != nil {
			return "", fmt.Errorf("decider failed: %w", err)
		}

		if len(decision.ToolCalls) == 0 {
			if decision.Reply == "" {
				return "", errors.New("decider returned neither a reply nor tool calls")
			}
			return decision.Reply, nil
		}

		for _, call := range decision.ToolCalls {
			result, err := a.executeTool(ctx, call, len(history))
			if err != nil {
				return "", err
			}
			req.Exchanges = append(req.Exchanges, ToolExchange{Call: call, Result: result})
		}
	}

	return "", fmt.Errorf("no final reply after %d tool rounds", a.cfg.MaxToolRounds)
}

func (a *Agent) executeTool(ctx context.Context, call ToolCall, historyTurns int) (string, error) {
	start := time.Now()
	var result string
	var err error

	switch call.Name {
	case toolQueryAvailability:
		result, err = a.queryAvailability(ctx, call.Args, historyTurns)
	case toolBookSlot:
		result, err = a.bookSlot(ctx, call.Args, historyTurns)
	default:
		result = fmt.Sprintf("Unknown tool %q.", call.Name)
	}

	a.metrics.RecordToolInvocation(ctx, call.Name, time.Since(start), err)
	if err != nil {
		a.logger.Error("Tool execution failed",
			logging.Operation("tool_execute"),
			logging.Tool(call.Name),
			logging.Duration(time.Since(start)),
			logging.Err(err))
		return "", err
	}

	a.logger.Debug("Tool executed",
		logging.Operation("tool_execute"),
		logging.Tool(call.Name),
		logging.Duration(time.Since(start)))
	return result, nil
}

type queryAvailabilityArgs struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (a *Agent) queryAvailability(ctx context.Context, rawArgs string, historyTurns int) (string, error) {
	var args queryAvailabilityArgs
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return fmt.Sprintf("Invalid arguments: %v.", err), nil
		}
	}

	now := a.cfg.Now().In(a.cfg.Location)

	start := now
	if args.StartTime != "" {
		parsed, err := a.parser.Parse(args.StartTime, now)
		if err != nil {
			return fmt.Sprintf("I couldn't understand the start time %q. Ask the user to rephrase it.", args.StartTime), nil
		}
		start = parsed
	}

	end := start.Add(a.cfg.DefaultWindow)
	if args.EndTime != "" {
		parsed, err := a.parser.Parse(args.EndTime, now)
		if err != nil {
			return fmt.Sprintf("I couldn't understand the end time %q. Ask the user to rephrase it.", args.EndTime), nil
		}
		end = parsed
	}

	if !start.Before(end) {
		return "That window is invalid: its start must be before its end. Ask the user for a valid range.", nil
	}

	window := availability.Window{Start: start, End: end}
	fetchStart := time.Now()
	busy, err := a.gateway.FetchBusy(ctx, window)
	a.metrics.RecordCalendarOperation(ctx, "freebusy", time.Since(fetchStart), err)
	if err != nil {
		if errors.Is(err, calendar.ErrBackendUnavailable) {
			return "", err
		}
		return fmt.Sprintf("Could not check the calendar: %v.", err), nil
	}

	result, err := availability.ComputeFreeSlots(window, busy, a.cfg.SlotDuration, a.cfg.ScanStride)
	if err != nil {
		return fmt.Sprintf("Could not compute availability: %v.", err), nil
	}

	a.offeredFree = result.Free
	a.offeredAtTurns = historyTurns
	a.hasOffer = true

	return availability.FormatResult(result, a.cfg.Location), nil
}

type bookSlotArgs struct {
	StartTime string `json:"start_time"`
}

func (a *Agent) bookSlot(ctx context.Context, rawArgs string, historyTurns int) (string, error) {
	var args bookSlotArgs
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return fmt.Sprintf("Invalid arguments: %v.", err), nil
	}
	if args.StartTime == "" {
		return "Missing start_time: name the exact slot the user confirmed.", nil
	}

	now := a.cfg.Now().In(a.cfg.Location)
	start, err := a.parser.Parse(args.StartTime, now)
	if err != nil {
		return fmt.Sprintf("I couldn't understand the time %q. Ask the user to rephrase it.", args.StartTime), nil
	}

	slot, ok := a.confirmedSlot(start, historyTurns)
	if !ok {
		a.metrics.RecordBooking(ctx, instrumentation.BookingRefused)
		a.logger.Warn("Booking refused by guard",
			logging.Operation("book_slot"),
			slog.Time("requested_start", start))
		return "Booking refused: only a slot that was listed as free and then confirmed by the user can be booked. Check availability, offer the free slots, and wait for the user to pick one.", nil
	}

	bookStart := time.Now()
	booking, err := a.gateway.Book(ctx, slot)
	a.metrics.RecordCalendarOperation(ctx, "insert", time.Since(bookStart), err)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrSlotRejected):
			// The slot was taken between listing and booking. Drop the
			// stale offer so the next booking requires a fresh listing.
			a.hasOffer = false
			a.metrics.RecordBooking(ctx, instrumentation.BookingRejected)
			return "That slot was just taken on the calendar. Check availability again and offer the user a new time.", nil
		case errors.Is(err, calendar.ErrBackendUnavailable):
			return "", err
		default:
			return "", err
		}
	}

	a.hasOffer = false
	a.metrics.RecordBooking(ctx, instrumentation.BookingBooked)
	a.logger.Info("Slot booked",
		logging.Operation("book_slot"),
		slog.Time("slot_start", booking.Slot.Start),
		slog.String("event_id", booking.EventID))
	return booking.HumanSummary, nil
}

// confirmedSlot checks the booking guard: the requested start must match a
// slot from the last availability listing, and at least one full turn must
// have completed since that listing, so the user has actually seen the
// offer and answered.
func (a *Agent) confirmedSlot(start time.Time, historyTurns int) (availability.Slot, bool) {
	if !a.hasOffer {
		return availability.Slot{}, false
	}
	if historyTurns < a.offeredAtTurns+2 {
		return availability.Slot{}, false
	}
	for _, slot := range a.offeredFree {
		if slot.Start.Equal(start) {
			return slot, true
		}
	}
	return availability.Slot{}, false
}

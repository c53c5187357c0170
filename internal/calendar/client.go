package calendar

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/zarahq/zara/internal/availability"
	"github.com/zarahq/zara/internal/google"
)

// summaryTimeFormat matches the slot rendering used in availability replies
// so confirmation messages read the same as the listings they came from.
const summaryTimeFormat = "02 Jan 03:04 PM"

// Client wraps the Google Calendar service for a single calendar.
type Client struct {
	svc        *calendar.Service
	calendarID string
	timezone   string
	location   *time.Location
	metadata   EventMetadata
}

// NewClient creates a Calendar client with OAuth2 authentication backed by
// the given token provider. All bookings carry the fixed metadata.
func NewClient(ctx context.Context, provider google.TokenProvider, calendarID, timezone string, location *time.Location, metadata EventMetadata) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	tokenSource, err := provider.TokenSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token source: %w", err)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := httpClient.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			ForceAttemptHTTP2: false,
		}
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:        svc,
		calendarID: calendarID,
		timezone:   timezone,
		location:   location,
		metadata:   metadata,
	}, nil
}

// FetchBusy queries the backend for busy intervals within the window. The
// window is validated before any network call. Busy intervals are returned
// as reported; clipping and slot scanning happen in the availability engine.
func (c *Client) FetchBusy(ctx context.Context, window availability.Window) ([]availability.Interval, error) {
	if !window.Start.Before(window.End) {
		return nil, ErrInvalidWindow
	}

	req := &calendar.FreeBusyRequest{
		TimeMin:  window.Start.Format(time.RFC3339),
		TimeMax:  window.End.Format(time.RFC3339),
		TimeZone: c.timezone,
		Items: []*calendar.FreeBusyRequestItem{
			{Id: c.calendarID},
		},
	}

	res, err := c.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, classifyAPIError("freebusy query", err)
	}

	cal, ok := res.Calendars[c.calendarID]
	if !ok {
		return nil, fmt.Errorf("%w: calendar %s missing from freebusy response", ErrBackendUnavailable, c.calendarID)
	}

	busy := make([]availability.Interval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		interval, err := parseBusyPeriod(period, c.location)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		busy = append(busy, interval)
	}
	return busy, nil
}

// Book creates a calendar event covering the slot, with an auto-generated
// Meet conference. A backend conflict at commit time maps to ErrSlotRejected
// and is never retried here.
func (c *Client) Book(ctx context.Context, slot availability.Slot) (*Booking, error) {
	event := &calendar.Event{
		Summary:     c.metadata.Summary,
		Description: c.metadata.Description,
		Start: &calendar.EventDateTime{
			DateTime: slot.Start.Format(time.RFC3339),
			TimeZone: c.timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: slot.End.Format(time.RFC3339),
			TimeZone: c.timezone,
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}

	created, err := c.svc.Events.Insert(c.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError("event insert", err)
	}

	link := meetLink(created)
	return &Booking{
		Slot:         slot,
		EventID:      created.Id,
		MeetLink:     link,
		HumanSummary: bookingSummary(slot, link, c.location),
	}, nil
}

// bookingSummary renders the confirmation sentence for a booked slot.
func bookingSummary(slot availability.Slot, meetLink string, loc *time.Location) string {
	start := slot.Start.In(loc).Format(summaryTimeFormat)
	if meetLink == "" {
		return fmt.Sprintf("Slot booked for %s.", start)
	}
	return fmt.Sprintf("Slot booked for %s. Meet link: %s", start, meetLink)
}

// meetLink extracts the conference link from a created event.
func meetLink(event *calendar.Event) string {
	if event.HangoutLink != "" {
		return event.HangoutLink
	}
	if event.ConferenceData == nil {
		return ""
	}
	for _, ep := range event.ConferenceData.EntryPoints {
		if ep.EntryPointType == "video" {
			return ep.Uri
		}
	}
	return ""
}

// parseBusyPeriod converts a freebusy time period into an interval in the
// configured location.
func parseBusyPeriod(period *calendar.TimePeriod, loc *time.Location) (availability.Interval, error) {
	start, err := time.Parse(time.RFC3339, period.Start)
	if err != nil {
		return availability.Interval{}, fmt.Errorf("invalid busy period start %q: %w", period.Start, err)
	}
	end, err := time.Parse(time.RFC3339, period.End)
	if err != nil {
		return availability.Interval{}, fmt.Errorf("invalid busy period end %q: %w", period.End, err)
	}
	return availability.Interval{Start: start.In(loc), End: end.In(loc)}, nil
}

// classifyAPIError maps a Google API error onto the gateway taxonomy. A 409
// on insert means the backend refused the slot; everything else, including
// auth failures and timeouts, is a backend availability problem.
func classifyAPIError(operation string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusConflict {
			return fmt.Errorf("%w: %s: %v", ErrSlotRejected, operation, err)
		}
		return fmt.Errorf("%w: %s failed with status %d: %v", ErrBackendUnavailable, operation, apiErr.Code, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s timed out: %v", ErrBackendUnavailable, operation, err)
	}

	return fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, operation, err)
}

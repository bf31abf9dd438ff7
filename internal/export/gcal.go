// Package export pushes classified events to Google Calendar.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"day-assistant/internal/classify"
)

type CalendarExporter struct {
	svc        *calendar.Service
	calendarID string
}

// NewCalendarExporter builds a calendar client from OAuth2 credentials JSON
// (Google Cloud Console format) and a previously obtained token stored at
// tokenPath.
func NewCalendarExporter(ctx context.Context, credentialsJSON, tokenPath, calendarID string) (*CalendarExporter, error) {
	cfg, err := google.ConfigFromJSON([]byte(credentialsJSON), calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OAuth2 credentials: %w", err)
	}

	token, err := loadToken(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth2 token: %w", err)
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to init calendar service: %w", err)
	}

	if calendarID == "" {
		calendarID = "primary"
	}
	return &CalendarExporter{svc: svc, calendarID: calendarID}, nil
}

// ExportEvent inserts the event into the calendar with its reminder
// offsets mapped to calendar overrides. Returns the created event's link.
func (e *CalendarExporter) ExportEvent(ctx context.Context, ev classify.Event) (string, error) {
	start, err := time.Parse(time.RFC3339, ev.EventDatetime)
	if err != nil {
		return "", fmt.Errorf("bad event datetime %q: %w", ev.EventDatetime, err)
	}

	item := &calendar.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.LocationAddress,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: "UTC"},
		End:         &calendar.EventDateTime{DateTime: start.Add(time.Hour).Format(time.RFC3339), TimeZone: "UTC"},
	}
	if overrides := reminderOverrides(ev.Reminders); len(overrides) > 0 {
		item.Reminders = &calendar.EventReminders{
			UseDefault:      false,
			Overrides:       overrides,
			ForceSendFields: []string{"UseDefault"},
		}
	}

	created, err := e.svc.Events.Insert(e.calendarID, item).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar insert failed: %w", err)
	}
	return created.HtmlLink, nil
}

// reminderOverrides flattens each reminder into one override per channel.
// Calendar has no call channel; those become popups.
func reminderOverrides(reminders []classify.Reminder) []*calendar.EventReminder {
	var out []*calendar.EventReminder
	for _, r := range reminders {
		for _, t := range r.Types {
			method := "popup"
			if t == classify.ReminderEmail {
				method = "email"
			}
			out = append(out, &calendar.EventReminder{
				Method:  method,
				Minutes: int64(r.TimeBefore),
			})
		}
	}
	return out
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, err
	}
	return token, nil
}

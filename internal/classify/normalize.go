package classify

import (
	"encoding/json"
	"strings"
	"time"

	"day-assistant/internal/timeutil"
)

// Normalize converts untrusted model output into exactly one Result
// variant. It never fails: anything that does not parse into a JSON object
// (directly or as the first element of an array) comes back as a Response
// wrapping the raw text. Missing fields get defaults, datetime defaults
// derive from now, and fields not belonging to the resolved variant are
// dropped.
func Normalize(raw string, now time.Time) Result {
	var parsed any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return Response{ResponseType: KindResponse, Content: raw}
	}
	if list, ok := parsed.([]any); ok {
		if len(list) == 0 {
			parsed = map[string]any{}
		} else {
			parsed = list[0]
		}
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return Response{ResponseType: KindResponse, Content: raw}
	}

	nowUTC := timeutil.FormatUTC(now)
	typ, _ := obj["type"].(string)
	switch typ {
	case "event":
		return Event{
			ResponseType:    KindEvent,
			Title:           stringField(obj, "title", ""),
			Description:     stringField(obj, "description", ""),
			LocationAddress: stringField(obj, "location_address", ""),
			EventDatetime:   stringField(obj, "event_datetime", nowUTC),
			Reminders:       reminderField(obj, defaultEventReminders()),
		}
	case "task":
		return Task{
			ResponseType: KindTask,
			Title:        stringField(obj, "title", ""),
			Description:  stringField(obj, "description", ""),
			StartTime:    stringField(obj, "start_time", nowUTC),
			EndTime:      stringField(obj, "end_time", nowUTC),
			Tags:         stringListField(obj, "tags"),
			Reminders:    reminderField(obj, defaultTaskReminders()),
		}
	case "note":
		return Note{
			ResponseType: KindNote,
			Title:        stringField(obj, "title", ""),
			Content:      stringField(obj, "content", ""),
		}
	default:
		return Response{
			ResponseType: KindResponse,
			Content:      stringField(obj, "content", raw),
		}
	}
}

func defaultEventReminders() []Reminder {
	return []Reminder{{TimeBefore: 30, Types: []string{ReminderNotification}}}
}

func defaultTaskReminders() []Reminder {
	return []Reminder{{TimeBefore: 60, Types: []string{ReminderNotification}}}
}

func stringField(obj map[string]any, key, fallback string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return fallback
}

// stringListField tolerates a missing or wrong-shaped value and drops
// non-string elements.
func stringListField(obj map[string]any, key string) []string {
	list, ok := obj[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// reminderField reads the reminders list. A missing or wrong-shaped value
// counts as absent and yields the fallback; a present list is kept as-is,
// even when empty, with malformed entries skipped.
func reminderField(obj map[string]any, fallback []Reminder) []Reminder {
	raw, present := obj["reminders"]
	if !present {
		return fallback
	}
	list, ok := raw.([]any)
	if !ok {
		return fallback
	}
	out := make([]Reminder, 0, len(list))
	for _, v := range list {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		r := Reminder{Types: []string{}}
		if n, ok := entry["time_before"].(float64); ok {
			r.TimeBefore = int(n)
		}
		if types, ok := entry["types"].([]any); ok {
			for _, t := range types {
				if s, ok := t.(string); ok {
					r.Types = append(r.Types, s)
				}
			}
		}
		out = append(out, r)
	}
	return out
}

package classify

import (
	"encoding/json"

	"day-assistant/internal/timeutil"
)

// ForDisplay renders a result as its JSON-shaped map with local-time
// companions added: event_datetime_local for events, start_time_local and
// end_time_local for tasks. Responses and notes pass through untouched.
// The original UTC fields are never modified.
func ForDisplay(res Result, tz string) map[string]any {
	out := resultMap(res)
	switch v := res.(type) {
	case Event:
		out["event_datetime_local"] = timeutil.ToLocalDisplay(v.EventDatetime, tz)
	case Task:
		out["start_time_local"] = timeutil.ToLocalDisplay(v.StartTime, tz)
		out["end_time_local"] = timeutil.ToLocalDisplay(v.EndTime, tz)
	}
	return out
}

func resultMap(res Result) map[string]any {
	data, err := json.Marshal(res)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}
	return out
}

package telegram

import (
	"fmt"
	"strings"

	"day-assistant/internal/classify"
	"day-assistant/internal/timeutil"
)

// formatResult renders a classification result as a chat reply. Datetimes
// are shown in the configured display zone.
func formatResult(res classify.Result, tz string) string {
	switch v := res.(type) {
	case classify.Response:
		return v.Content
	case classify.Event:
		var sb strings.Builder
		fmt.Fprintf(&sb, "📅 Event: %s\n", v.Title)
		fmt.Fprintf(&sb, "🕘 %s\n", timeutil.ToLocalDisplay(v.EventDatetime, tz))
		if v.LocationAddress != "" {
			fmt.Fprintf(&sb, "📍 %s\n", v.LocationAddress)
		}
		if v.Description != "" {
			sb.WriteString(v.Description + "\n")
		}
		sb.WriteString(formatReminders(v.Reminders))
		return strings.TrimRight(sb.String(), "\n")
	case classify.Task:
		var sb strings.Builder
		fmt.Fprintf(&sb, "✅ Task: %s\n", v.Title)
		fmt.Fprintf(&sb, "🕘 %s → %s\n",
			timeutil.ToLocalDisplay(v.StartTime, tz), timeutil.ToLocalDisplay(v.EndTime, tz))
		if v.Description != "" {
			sb.WriteString(v.Description + "\n")
		}
		if len(v.Tags) > 0 {
			fmt.Fprintf(&sb, "🏷 %s\n", strings.Join(v.Tags, ", "))
		}
		sb.WriteString(formatReminders(v.Reminders))
		return strings.TrimRight(sb.String(), "\n")
	case classify.Note:
		if v.Title != "" {
			return fmt.Sprintf("📝 Note: %s\n%s", v.Title, v.Content)
		}
		return "📝 Note: " + v.Content
	default:
		return res.DisplayText()
	}
}

func formatReminders(reminders []classify.Reminder) string {
	if len(reminders) == 0 {
		return ""
	}
	parts := make([]string, 0, len(reminders))
	for _, r := range reminders {
		parts = append(parts, fmt.Sprintf("%d min before (%s)", r.TimeBefore, strings.Join(r.Types, ", ")))
	}
	return "🔔 " + strings.Join(parts, "; ") + "\n"
}

package scheduler

import (
	"encoding/json"
	"testing"
	"time"

	"day-assistant/internal/storage"
)

type memRecorder struct{ exchanges []storage.Exchange }

func (m *memRecorder) AppendExchange(ex storage.Exchange) error {
	m.exchanges = append(m.exchanges, ex)
	return nil
}
func (m *memRecorder) LoadExchanges() ([]storage.Exchange, error) {
	return append([]storage.Exchange{}, m.exchanges...), nil
}

type memNotifier struct {
	userIDs []int64
	texts   []string
}

func (m *memNotifier) Notify(userID int64, text string) error {
	m.userIDs = append(m.userIDs, userID)
	m.texts = append(m.texts, text)
	return nil
}

func eventExchange(userID int64, title, datetime string, timeBefore int) storage.Exchange {
	raw, _ := json.Marshal(map[string]any{
		"response_type":  "event",
		"title":          title,
		"event_datetime": datetime,
		"reminders":      []map[string]any{{"time_before": timeBefore, "types": []string{"notification"}}},
	})
	return storage.Exchange{UserID: userID, Kind: "event", Result: raw}
}

func TestDispatchDue_FiresInsideWindow(t *testing.T) {
	rec := &memRecorder{exchanges: []storage.Exchange{
		eventExchange(1, "Standup", "2025-12-03T05:00:00Z", 30),
	}}
	n := &memNotifier{}
	s := New(rec, n, "* * * * *", "")
	s.now = func() time.Time { return time.Date(2025, 12, 3, 4, 45, 0, 0, time.UTC) }

	s.dispatchDue()

	if len(n.texts) != 1 {
		t.Fatalf("want 1 reminder, got %d", len(n.texts))
	}
	if n.userIDs[0] != 1 {
		t.Fatalf("wrong recipient: %d", n.userIDs[0])
	}
}

func TestDispatchDue_FiresOnlyOnce(t *testing.T) {
	rec := &memRecorder{exchanges: []storage.Exchange{
		eventExchange(1, "Standup", "2025-12-03T05:00:00Z", 30),
	}}
	n := &memNotifier{}
	s := New(rec, n, "* * * * *", "")
	s.now = func() time.Time { return time.Date(2025, 12, 3, 4, 45, 0, 0, time.UTC) }

	s.dispatchDue()
	s.dispatchDue()

	if len(n.texts) != 1 {
		t.Fatalf("reminder must fire at most once, got %d", len(n.texts))
	}
}

func TestDispatchDue_SkipsNotYetDueAndPast(t *testing.T) {
	rec := &memRecorder{exchanges: []storage.Exchange{
		eventExchange(1, "TooEarly", "2025-12-03T05:00:00Z", 30),
		eventExchange(2, "AlreadyOver", "2025-12-01T05:00:00Z", 30),
	}}
	n := &memNotifier{}
	s := New(rec, n, "* * * * *", "")
	s.now = func() time.Time { return time.Date(2025, 12, 3, 3, 0, 0, 0, time.UTC) }

	s.dispatchDue()

	if len(n.texts) != 0 {
		t.Fatalf("no reminder expected, got %v", n.texts)
	}
}

func TestDispatchDue_TaskRemindersUseDeadline(t *testing.T) {
	raw, _ := json.Marshal(map[string]any{
		"response_type": "task",
		"title":         "Report",
		"start_time":    "2025-12-03T01:00:00Z",
		"end_time":      "2025-12-03T05:00:00Z",
		"reminders":     []map[string]any{{"time_before": 60, "types": []string{"notification"}}},
	})
	rec := &memRecorder{exchanges: []storage.Exchange{{UserID: 5, Kind: "task", Result: raw}}}
	n := &memNotifier{}
	s := New(rec, n, "* * * * *", "")
	s.now = func() time.Time { return time.Date(2025, 12, 3, 4, 30, 0, 0, time.UTC) }

	s.dispatchDue()

	if len(n.texts) != 1 || n.userIDs[0] != 5 {
		t.Fatalf("task reminder not fired: %v", n.texts)
	}
}

func TestDispatchDue_IgnoresMalformedResults(t *testing.T) {
	rec := &memRecorder{exchanges: []storage.Exchange{
		{UserID: 1, Kind: "event", Result: json.RawMessage(`{"event_datetime": 42}`)},
		{UserID: 2, Kind: "response"},
	}}
	n := &memNotifier{}
	s := New(rec, n, "* * * * *", "")
	s.now = time.Now

	s.dispatchDue()

	if len(n.texts) != 0 {
		t.Fatalf("nothing should fire: %v", n.texts)
	}
}

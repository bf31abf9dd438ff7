// Package conversation keeps the per-session exchange log and drives the
// classify pipeline: build context, call the model, normalize, append the
// user and assistant turns.
package conversation

import (
	"context"
	"sync"
	"time"

	"day-assistant/internal/classify"
	"day-assistant/internal/timeutil"
)

// Manager owns an append-only turn log. The whole read-classify-append
// sequence runs under one lock so a shared instance cannot interleave
// turns.
type Manager struct {
	mu         sync.Mutex
	classifier *classify.Classifier
	turns      []classify.Turn
	localTZ    string
	now        func() time.Time
}

// NewManager creates an empty log bound to a classifier. localTZ names the
// display zone for SendForDisplay; empty means system local.
func NewManager(classifier *classify.Classifier, localTZ string) *Manager {
	return &Manager{
		classifier: classifier,
		localTZ:    localTZ,
		now:        time.Now,
	}
}

// Send classifies message against the current log and, on success, appends
// a user turn followed by an assistant turn. On error the log is left
// unchanged and nothing is returned.
func (m *Manager) Send(ctx context.Context, message string) (classify.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, err := m.classifier.Classify(ctx, m.turns, message)
	if err != nil {
		return nil, err
	}

	m.turns = append(m.turns, classify.Turn{
		Role:      "user",
		Timestamp: timeutil.FormatUTC(m.now()),
		Message:   message,
	})
	m.turns = append(m.turns, classify.Turn{
		Role:      "assistant",
		Timestamp: timeutil.FormatUTC(m.now()),
		Message:   res.DisplayText(),
	})
	return res, nil
}

// SendForDisplay is Send plus local-time display augmentation.
func (m *Manager) SendForDisplay(ctx context.Context, message string) (map[string]any, error) {
	res, err := m.Send(ctx, message)
	if err != nil {
		return nil, err
	}
	return classify.ForDisplay(res, m.localTZ), nil
}

// History returns a copy of the log in chronological order.
func (m *Manager) History() []classify.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]classify.Turn, len(m.turns))
	copy(out, m.turns)
	return out
}

// LastExchange returns the most recent user/assistant pair, if any.
func (m *Manager) LastExchange() (user, assistant classify.Turn, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.turns) < 2 {
		return classify.Turn{}, classify.Turn{}, false
	}
	return m.turns[len(m.turns)-2], m.turns[len(m.turns)-1], true
}

// Clear resets the log to empty.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = nil
}

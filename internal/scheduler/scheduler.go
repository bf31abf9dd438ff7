// Package scheduler dispatches reminders for recorded events and tasks:
// a cron tick rescans the exchange log and notifies users whose reminder
// offsets have come due.
package scheduler

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"day-assistant/internal/classify"
	"day-assistant/internal/storage"
	"day-assistant/internal/timeutil"
)

// Notifier delivers a reminder text to a user. Implemented by the telegram
// bot.
type Notifier interface {
	Notify(userID int64, text string) error
}

type Scheduler struct {
	cron     *cron.Cron
	spec     string
	recorder storage.Recorder
	notifier Notifier
	localTZ  string
	now      func() time.Time

	mu    sync.Mutex
	fired map[string]bool
}

func New(recorder storage.Recorder, notifier Notifier, spec, localTZ string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		spec:     spec,
		recorder: recorder,
		notifier: notifier,
		localTZ:  localTZ,
		now:      time.Now,
		fired:    make(map[string]bool),
	}
}

func (s *Scheduler) Start() error {
	if s.recorder == nil || s.notifier == nil {
		log.Println("⚠️ Reminder dispatch disabled: no recorder or notifier configured")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.dispatchDue); err != nil {
		return fmt.Errorf("add cron func: %w", err)
	}
	s.cron.Start()
	log.Printf("📅 Reminder scheduler started (spec %q)", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	log.Println("📅 Reminder scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}

// dispatchDue scans recorded exchanges and fires every reminder whose
// offset before its event/task datetime has passed. Each reminder fires at
// most once per process lifetime.
func (s *Scheduler) dispatchDue() {
	exchanges, err := s.recorder.LoadExchanges()
	if err != nil {
		log.Printf("❌ Reminder scan failed: %v", err)
		return
	}

	now := s.now().UTC()
	for _, ex := range exchanges {
		switch classify.Kind(ex.Kind) {
		case classify.KindEvent:
			var ev classify.Event
			if err := json.Unmarshal(ex.Result, &ev); err != nil {
				continue
			}
			s.fireDue(ex.UserID, ev.Title, ev.EventDatetime, ev.Reminders, now)
		case classify.KindTask:
			var task classify.Task
			if err := json.Unmarshal(ex.Result, &task); err != nil {
				continue
			}
			s.fireDue(ex.UserID, task.Title, task.EndTime, task.Reminders, now)
		}
	}
}

func (s *Scheduler) fireDue(userID int64, title, datetime string, reminders []classify.Reminder, now time.Time) {
	at, err := time.Parse(time.RFC3339, datetime)
	if err != nil {
		return
	}
	for _, r := range reminders {
		due := at.Add(-time.Duration(r.TimeBefore) * time.Minute)
		if now.Before(due) || now.After(at) {
			continue
		}
		key := fmt.Sprintf("%d|%s|%s|%d", userID, title, datetime, r.TimeBefore)
		s.mu.Lock()
		seen := s.fired[key]
		if !seen {
			s.fired[key] = true
		}
		s.mu.Unlock()
		if seen {
			continue
		}

		text := fmt.Sprintf("⏰ Reminder: %s at %s", title, timeutil.ToLocalDisplay(datetime, s.localTZ))
		if err := s.notifier.Notify(userID, text); err != nil {
			log.Printf("❌ Failed to deliver reminder to %d: %v", userID, err)
		}
	}
}

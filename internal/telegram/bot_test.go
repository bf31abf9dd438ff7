package telegram

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"day-assistant/internal/auth"
	"day-assistant/internal/classify"
	"day-assistant/internal/conversation"
	"day-assistant/internal/llm"
	"day-assistant/internal/storage"
)

type fakeSender struct{ sent []string }

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	sw := c.(tgbotapi.MessageConfig)
	f.sent = append(f.sent, sw.Text)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) GetFile(c tgbotapi.FileConfig) (tgbotapi.File, error) {
	return tgbotapi.File{FileID: c.FileID}, nil
}

type fakeLLM struct {
	resp llm.Response
	err  error
}

func (f fakeLLM) Generate(ctx context.Context, msgs []llm.Message) (llm.Response, error) {
	return f.resp, f.err
}

type memRecorder struct{ exchanges []storage.Exchange }

func (m *memRecorder) AppendExchange(ex storage.Exchange) error {
	m.exchanges = append(m.exchanges, ex)
	return nil
}
func (m *memRecorder) LoadExchanges() ([]storage.Exchange, error) { return m.exchanges, nil }

func newTestBot(t *testing.T, userID int64, reply string) (*Bot, *fakeSender, *memRecorder) {
	t.Helper()
	svc, err := auth.NewWithRepo(nil, []int64{userID})
	if err != nil {
		t.Fatalf("auth init: %v", err)
	}
	fs := &fakeSender{}
	rec := &memRecorder{}
	return &Bot{
		s:          fs,
		authSvc:    svc,
		classifier: classify.New(fakeLLM{resp: llm.Response{Content: reply}}),
		recorder:   rec,
		sessions:   make(map[int64]*conversation.Manager),
	}, fs, rec
}

func TestHandleIncomingMessage_Unauthorized(t *testing.T) {
	b, fs, _ := newTestBot(t, 42, "")
	msg := &tgbotapi.Message{From: &tgbotapi.User{ID: 999}, Chat: &tgbotapi.Chat{ID: 999}, Text: "hi"}

	b.handleIncomingMessage(context.Background(), msg)

	if len(fs.sent) != 1 || !strings.Contains(fs.sent[0], "allowlist") {
		t.Fatalf("unauthorized reply missing: %+v", fs.sent)
	}
}

func TestHandleIncomingMessage_EventReplyFormattedAndRecorded(t *testing.T) {
	reply := `{"type":"event","title":"Standup","description":"daily sync","location_address":"Room A","event_datetime":"2025-12-03T05:00:00Z"}`
	b, fs, rec := newTestBot(t, 42, reply)
	msg := &tgbotapi.Message{From: &tgbotapi.User{ID: 42}, Chat: &tgbotapi.Chat{ID: 100}, Text: "standup tomorrow"}

	b.handleIncomingMessage(context.Background(), msg)

	if len(fs.sent) != 1 {
		t.Fatalf("expected 1 message sent, got %d", len(fs.sent))
	}
	out := fs.sent[0]
	if strings.Contains(out, `{"`) {
		t.Fatalf("raw JSON leaked to user: %q", out)
	}
	if !strings.Contains(out, "Standup") || !strings.Contains(out, "Room A") {
		t.Fatalf("event fields missing from reply: %q", out)
	}

	if len(rec.exchanges) != 1 {
		t.Fatalf("exchange not recorded: %+v", rec.exchanges)
	}
	ex := rec.exchanges[0]
	if ex.UserID != 42 || ex.Kind != "event" || ex.UserMessage != "standup tomorrow" {
		t.Fatalf("unexpected exchange: %+v", ex)
	}
	if ex.Reply != "Standup" {
		t.Fatalf("reply must carry display text: %q", ex.Reply)
	}
}

func TestHandleIncomingMessage_PlainResponsePassedThrough(t *testing.T) {
	b, fs, _ := newTestBot(t, 42, `{"type":"response","content":"hello there"}`)
	msg := &tgbotapi.Message{From: &tgbotapi.User{ID: 42}, Chat: &tgbotapi.Chat{ID: 100}, Text: "hi"}

	b.handleIncomingMessage(context.Background(), msg)

	if len(fs.sent) != 1 || fs.sent[0] != "hello there" {
		t.Fatalf("unexpected reply: %+v", fs.sent)
	}
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	b, _, _ := newTestBot(t, 1, `{"type":"response","content":"x"}`)
	if b.session(1) == b.session(2) {
		t.Fatal("sessions must be per-user")
	}
	if b.session(1) != b.session(1) {
		t.Fatal("session must be stable per user")
	}
}

func TestResetCallbackClearsSession(t *testing.T) {
	b, fs, _ := newTestBot(t, 42, `{"type":"response","content":"x"}`)
	msg := &tgbotapi.Message{From: &tgbotapi.User{ID: 42}, Chat: &tgbotapi.Chat{ID: 100}, Text: "hi"}
	b.handleIncomingMessage(context.Background(), msg)

	if got := len(b.session(42).History()); got != 2 {
		t.Fatalf("want 2 turns before reset, got %d", got)
	}

	cb := &tgbotapi.CallbackQuery{
		From:    &tgbotapi.User{ID: 42},
		Data:    resetCmd,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 100}},
	}
	b.handleCallback(cb)

	if got := len(b.session(42).History()); got != 0 {
		t.Fatalf("session not cleared, %d turns left", got)
	}
	if !strings.Contains(strings.Join(fs.sent, "\n"), "Context cleared") {
		t.Fatalf("reset confirmation missing: %+v", fs.sent)
	}
}

func TestFormatResult_TaskIncludesTagsAndReminders(t *testing.T) {
	task := classify.Task{
		ResponseType: classify.KindTask,
		Title:        "Report",
		StartTime:    "2025-12-03T01:00:00Z",
		EndTime:      "2025-12-03T05:00:00Z",
		Tags:         []string{"work", "urgent"},
		Reminders:    []classify.Reminder{{TimeBefore: 60, Types: []string{"notification"}}},
	}
	out := formatResult(task, "")
	for _, want := range []string{"Report", "work, urgent", "60 min before"} {
		if !strings.Contains(out, want) {
			t.Fatalf("%q missing from %q", want, out)
		}
	}
}

func TestAttachmentFile(t *testing.T) {
	doc := &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "d1", FileName: "report.txt"}}
	if id, name := attachmentFile(doc); id != "d1" || name != "report.txt" {
		t.Fatalf("document: %s %s", id, name)
	}
	voice := &tgbotapi.Message{Voice: &tgbotapi.Voice{FileID: "v1"}}
	if id, name := attachmentFile(voice); id != "v1" || name != "voice.ogg" {
		t.Fatalf("voice: %s %s", id, name)
	}
	photo := &tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "big"}}}
	if id, name := attachmentFile(photo); id != "big" || name != "photo.jpg" {
		t.Fatalf("photo must take largest size: %s %s", id, name)
	}
	if id, _ := attachmentFile(&tgbotapi.Message{}); id != "" {
		t.Fatalf("no attachment must yield empty id: %s", id)
	}
}

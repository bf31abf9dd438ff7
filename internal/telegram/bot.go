package telegram

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"day-assistant/internal/auth"
	"day-assistant/internal/classify"
	"day-assistant/internal/conversation"
	"day-assistant/internal/storage"
	"day-assistant/internal/summarize"
)

const resetCmd = "reset_ctx"

// EventExporter pushes a classified event to an external calendar.
type EventExporter interface {
	ExportEvent(ctx context.Context, ev classify.Event) (string, error)
}

type Bot struct {
	s          sender
	token      string
	authSvc    *auth.Service
	classifier *classify.Classifier
	summarizer *summarize.Summarizer
	recorder   storage.Recorder
	exporter   EventExporter
	localTZ    string

	mu       sync.Mutex
	sessions map[int64]*conversation.Manager
}

func New(botToken string, authSvc *auth.Service, classifier *classify.Classifier,
	summarizer *summarize.Summarizer, recorder storage.Recorder,
	exporter EventExporter, localTZ string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		s:          botAPISender{api: api},
		token:      botToken,
		authSvc:    authSvc,
		classifier: classifier,
		summarizer: summarizer,
		recorder:   recorder,
		exporter:   exporter,
		localTZ:    localTZ,
		sessions:   make(map[int64]*conversation.Manager),
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	api := b.s.(botAPISender).api
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleIncomingMessage(ctx, update.Message)
			continue
		}
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
	}
}

// Notify implements scheduler.Notifier. In private chats the chat ID equals
// the user ID.
func (b *Bot) Notify(userID int64, text string) error {
	msg := tgbotapi.NewMessage(userID, text)
	_, err := b.s.Send(msg)
	return err
}

func (b *Bot) session(userID int64) *conversation.Manager {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.sessions[userID]
	if !ok {
		m = conversation.NewManager(b.classifier, b.localTZ)
		b.sessions[userID] = m
	}
	return m
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !b.authSvc.IsAllowed(msg.From.ID) {
		log.Printf("Unauthorized access attempt by user ID: %d, username: @%s", msg.From.ID, msg.From.UserName)
		b.sendMessage(msg.Chat.ID, "Sorry, you are not on the allowlist.")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	if hasAttachment(msg) {
		b.handleFileSummarization(ctx, msg)
		return
	}

	log.Printf("Incoming message from %d (@%s): %q", msg.From.ID, msg.From.UserName, msg.Text)

	res, err := b.session(msg.From.ID).Send(ctx, msg.Text)
	if err != nil {
		log.Printf("failed to classify message: %v", err)
		b.sendMessage(msg.Chat.ID, "Sorry, something went wrong.")
		return
	}

	log.Printf("Classified message from %d as %s", msg.From.ID, res.Kind())
	b.recordExchange(msg.From.ID, msg.Text, res)

	reply := formatResult(res, b.localTZ)
	if ev, ok := res.(classify.Event); ok && b.exporter != nil {
		link, err := b.exporter.ExportEvent(ctx, ev)
		if err != nil {
			log.Printf("failed to export event to calendar: %v", err)
		} else {
			reply += "\n\n📆 Added to calendar: " + link
		}
	}

	// Reply with inline button to reset context
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Reset context", resetCmd),
		),
	)
	out := tgbotapi.NewMessage(msg.Chat.ID, reply)
	out.ReplyMarkup = kb
	if _, err := b.s.Send(out); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, "Hi! Tell me about your day: I file events, tasks and notes, and summarize any file you send me.")
	case "reset":
		b.session(msg.From.ID).Clear()
		b.sendMessage(msg.Chat.ID, "Context cleared")
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command")
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Data == resetCmd {
		b.session(cb.From.ID).Clear()
		b.sendMessage(cb.Message.Chat.ID, "Context cleared")
	}
}

func (b *Bot) recordExchange(userID int64, text string, res classify.Result) {
	if b.recorder == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		log.Printf("failed to marshal result for recording: %v", err)
		return
	}
	ex := storage.Exchange{
		Timestamp:   time.Now().UTC(),
		UserID:      userID,
		UserMessage: text,
		Kind:        string(res.Kind()),
		Reply:       res.DisplayText(),
		Result:      raw,
	}
	if err := b.recorder.AppendExchange(ex); err != nil {
		log.Printf("failed to record exchange: %v", err)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

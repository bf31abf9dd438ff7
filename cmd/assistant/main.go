package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"day-assistant/internal/auth"
	"day-assistant/internal/classify"
	"day-assistant/internal/config"
	"day-assistant/internal/export"
	"day-assistant/internal/llm"
	"day-assistant/internal/scheduler"
	"day-assistant/internal/storage"
	"day-assistant/internal/summarize"
	"day-assistant/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	ctx := context.Background()

	var allowRepo auth.Repository
	if cfg.AllowlistFilePath != "" {
		repo, err := auth.NewFileRepository(cfg.AllowlistFilePath)
		if err != nil {
			log.Printf("failed to init allowlist repo: %v", err)
		} else {
			allowRepo = repo
		}
	}
	authSvc, err := auth.NewWithRepo(allowRepo, cfg.AllowedUsers)
	if err != nil {
		log.Fatalf("failed to init auth: %v", err)
	}

	factory := llm.NewFactory(cfg)
	client, err := factory.CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	classifier := classify.New(client)
	classifier.SetTimeout(time.Duration(cfg.ClassifyTimeoutSeconds) * time.Second)

	summarizer := summarize.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)

	var recorder storage.Recorder
	if cfg.ExchangeLogPath != "" {
		fr, err := storage.NewFileRecorder(cfg.ExchangeLogPath)
		if err != nil {
			log.Printf("failed to init exchange recorder: %v", err)
		} else {
			recorder = fr
		}
	}

	var exporter telegram.EventExporter
	if cfg.GoogleCredentialsJSON != "" {
		ce, err := export.NewCalendarExporter(ctx, cfg.GoogleCredentialsJSON, cfg.GoogleTokenPath, cfg.GoogleCalendarID)
		if err != nil {
			log.Printf("calendar export disabled: %v", err)
		} else {
			exporter = ce
		}
	}

	bot, err := telegram.New(cfg.TelegramBotToken, authSvc, classifier, summarizer, recorder, exporter, cfg.LocalTimezone)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	sched := scheduler.New(recorder, bot, cfg.ReminderCronSpec, cfg.LocalTimezone)
	if err := sched.Start(); err != nil {
		log.Printf("failed to start reminder scheduler: %v", err)
	}
	defer sched.Stop()

	bot.Start(ctx)
}

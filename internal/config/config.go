package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	TelegramBotToken string  `env:"TELEGRAM_BOT_TOKEN,required"`
	AllowedUsers     []int64 `env:"ALLOWED_USERS" envSeparator:":"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Classification
	ClassifyTimeoutSeconds int `env:"CLASSIFY_TIMEOUT_SECONDS" envDefault:"60"`

	// Display timezone for event/task datetimes; empty means system local
	LocalTimezone string `env:"LOCAL_TIMEZONE"`

	// Summarization
	SummaryMaxWords int `env:"SUMMARY_MAX_WORDS" envDefault:"500"`

	// Storage
	ExchangeLogPath   string `env:"EXCHANGE_LOG_PATH" envDefault:"logs/exchanges.jsonl"`
	AllowlistFilePath string `env:"ALLOWLIST_FILE_PATH" envDefault:"data/allowlist.json"`

	// Reminder dispatch
	ReminderCronSpec string `env:"REMINDER_CRON_SPEC" envDefault:"* * * * *"`

	// Google Calendar export (optional)
	GoogleCredentialsJSON string `env:"GOOGLE_CREDENTIALS_JSON"`
	GoogleTokenPath       string `env:"GOOGLE_TOKEN_PATH" envDefault:"data/google_token.json"`
	GoogleCalendarID      string `env:"GOOGLE_CALENDAR_ID" envDefault:"primary"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

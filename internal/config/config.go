package config

import (
	"fmt"
	"os"
	"strconv"
)

// Supported text-generation providers.
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// DaysOfWeek is the 8-day planning template. The week opens and closes on a
// Sunday so the plan covers both weekend anchors.
var DaysOfWeek = []string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// Config holds the configuration for the application.
type Config struct {
	NotionAPIKey string
	NotionAPIURL string

	LLMProvider  string
	GeminiAPIKey string
	GroqAPIKey   string

	DatabasePath string

	// HTTP API Config (required only for the serve command)
	APIJWTSecret string
	APIPassword  string

	// Telegram Config (required only for the bot)
	TelegramBotToken    string
	TelegramWebhookURL  string
	TelegramAllowUserID int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	notionAPIKey := os.Getenv("NOTION_API_KEY")
	if notionAPIKey == "" {
		return nil, fmt.Errorf("NOTION_API_KEY environment variable not set")
	}

	notionAPIURL := os.Getenv("NOTION_API_URL")
	if notionAPIURL == "" {
		notionAPIURL = "https://api.notion.com"
	}

	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = ProviderGemini
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	groqAPIKey := os.Getenv("GROQ_API_KEY")

	switch provider {
	case ProviderGemini:
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case ProviderGroq:
		if groqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (expected %q or %q)", provider, ProviderGemini, ProviderGroq)
	}

	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "data/mealworm.db"
	}

	// Telegram and API settings are optional for the CLI.
	var telegramAllowUserID int64
	if v := os.Getenv("TELEGRAM_ALLOW_USER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_ALLOW_USER_ID environment variable is not a valid user ID: %q", v)
		}
		telegramAllowUserID = id
	}

	return &Config{
		NotionAPIKey:        notionAPIKey,
		NotionAPIURL:        notionAPIURL,
		LLMProvider:         provider,
		GeminiAPIKey:        geminiAPIKey,
		GroqAPIKey:          groqAPIKey,
		DatabasePath:        databasePath,
		APIJWTSecret:        os.Getenv("API_JWT_SECRET"),
		APIPassword:         os.Getenv("API_PASSWORD"),
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:  os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowUserID: telegramAllowUserID,
	}, nil
}

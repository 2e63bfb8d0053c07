package config

import (
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NOTION_API_KEY", "notion-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("NOTION_API_URL", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("TELEGRAM_ALLOW_USER_ID", "")
}

func TestNewFromEnvDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv returned error: %v", err)
	}

	if cfg.NotionAPIKey != "notion-key" {
		t.Errorf("unexpected notion key: %q", cfg.NotionAPIKey)
	}
	if cfg.NotionAPIURL != "https://api.notion.com" {
		t.Errorf("unexpected default API URL: %q", cfg.NotionAPIURL)
	}
	if cfg.LLMProvider != ProviderGemini {
		t.Errorf("expected default provider %q, got %q", ProviderGemini, cfg.LLMProvider)
	}
	if cfg.DatabasePath != "data/mealworm.db" {
		t.Errorf("unexpected default database path: %q", cfg.DatabasePath)
	}
}

func TestNewFromEnvMissingNotionKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("NOTION_API_KEY", "")

	if _, err := NewFromEnv(); err == nil || !strings.Contains(err.Error(), "NOTION_API_KEY") {
		t.Errorf("expected NOTION_API_KEY error, got %v", err)
	}
}

func TestNewFromEnvMissingProviderKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := NewFromEnv(); err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("expected GEMINI_API_KEY error, got %v", err)
	}
}

func TestNewFromEnvGroqProvider(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LLM_PROVIDER", "groq")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "groq-key")

	cfg, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv returned error: %v", err)
	}
	if cfg.LLMProvider != ProviderGroq {
		t.Errorf("expected provider %q, got %q", ProviderGroq, cfg.LLMProvider)
	}
}

func TestNewFromEnvUnknownProvider(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LLM_PROVIDER", "mystery")

	if _, err := NewFromEnv(); err == nil || !strings.Contains(err.Error(), "LLM_PROVIDER") {
		t.Errorf("expected unknown provider error, got %v", err)
	}
}

func TestNewFromEnvTelegramAllowUserID(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TELEGRAM_ALLOW_USER_ID", "12345")

	cfg, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv returned error: %v", err)
	}
	if cfg.TelegramAllowUserID != 12345 {
		t.Errorf("expected allow user ID 12345, got %d", cfg.TelegramAllowUserID)
	}
}

func TestNewFromEnvMalformedTelegramAllowUserID(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TELEGRAM_ALLOW_USER_ID", "not-a-number")

	if _, err := NewFromEnv(); err == nil || !strings.Contains(err.Error(), "TELEGRAM_ALLOW_USER_ID") {
		t.Errorf("expected TELEGRAM_ALLOW_USER_ID error, got %v", err)
	}
}

func TestDaysOfWeekTemplate(t *testing.T) {
	if len(DaysOfWeek) != 8 {
		t.Fatalf("expected 8 planning days, got %d", len(DaysOfWeek))
	}
	if DaysOfWeek[0] != "Sunday" || DaysOfWeek[7] != "Sunday" {
		t.Errorf("expected the week to open and close on Sunday, got %v", DaysOfWeek)
	}
}

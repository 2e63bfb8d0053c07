package planner

import (
	"strings"
	"testing"
	"unicode/utf8"

	"mealworm/internal/meal"
)

func TestTruncate(t *testing.T) {
	t.Run("short strings pass through", func(t *testing.T) {
		if got := truncate("hello", 10); got != "hello" {
			t.Errorf("expected unchanged string, got %q", got)
		}
	})

	t.Run("ascii cuts at the limit", func(t *testing.T) {
		got := truncate(strings.Repeat("a", 600), 500)
		if len(got) != 503 || !strings.HasSuffix(got, "a...") {
			t.Errorf("expected 500 bytes plus ellipsis, got %d bytes", len(got))
		}
	})

	t.Run("never splits a rune", func(t *testing.T) {
		// 200 three-byte runes: 600 bytes, and byte 500 falls mid-rune.
		s := strings.Repeat("€", 200)
		got := truncate(s, 500)
		if !utf8.ValidString(got) {
			t.Errorf("truncation produced invalid UTF-8: %q", got)
		}
		if len(got) != 498+len("...") {
			t.Errorf("expected cut backed up to the rune boundary at 498, got %d bytes", len(got))
		}
	})
}

func TestBuildMealSummaryPreviewIsValidUTF8(t *testing.T) {
	meals := []meal.Meal{{
		Title:       "Crème Brûlée",
		// One ASCII byte then two-byte runes, so the 500-byte cut lands mid-rune.
		PageContent: "x" + strings.Repeat("é", 300),
	}}

	summary := buildMealSummary(meals)
	if !utf8.ValidString(summary) {
		t.Errorf("summary contains invalid UTF-8: %q", summary)
	}
	if !strings.Contains(summary, "...") {
		t.Error("expected the long content preview to be truncated")
	}
}

func TestBuildAvailableMealsDescriptionIsValidUTF8(t *testing.T) {
	meals := []meal.Meal{{
		Title:       "Paella",
		// One ASCII byte then two-byte runes, so the 100-byte cut lands mid-rune.
		Description: "x" + strings.Repeat("ñ", 80),
	}}

	lines := buildAvailableMeals(meals)
	if !utf8.ValidString(lines) {
		t.Errorf("meal listing contains invalid UTF-8: %q", lines)
	}
	if !strings.Contains(lines, "...") {
		t.Error("expected the long description to be truncated")
	}
}

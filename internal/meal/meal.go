package meal

import (
	"time"

	"mealworm/internal/notion"
)

// Meal is a normalized meal record extracted from one workspace page.
// Title is the only mandatory field; everything else is best-effort.
type Meal struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CuisineType string     `json:"cuisine_type,omitempty"`
	PrepTime    *int       `json:"prep_time,omitempty"` // minutes
	CookTime    *int       `json:"cook_time,omitempty"` // minutes
	Difficulty  string     `json:"difficulty,omitempty"`
	Ingredients []string   `json:"ingredients,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	LastMade    *time.Time `json:"last_made,omitempty"`
	Rating      *int       `json:"rating,omitempty"`
	PageContent string     `json:"page_content,omitempty"`

	// Source keeps the original page for traceability. Never persisted.
	Source notion.Page `json:"-"`
}

// IsPlaceholder reports whether the meal was synthesized from plan text
// rather than extracted from the workspace.
func (m Meal) IsPlaceholder() bool {
	return m.ID == PlaceholderID
}

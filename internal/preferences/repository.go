// Package preferences stores per-user planning constraints read by the
// generate stage's prompt construction.
package preferences

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Preferences is a flat record of a user's planning constraints.
type Preferences struct {
	Likes               []string `json:"likes,omitempty"`
	Dislikes            []string `json:"dislikes,omitempty"`
	Cuisines            []string `json:"cuisines,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	Allergies           []string `json:"allergies,omitempty"`
	EatOutDays          []string `json:"eat_out_days,omitempty"`
	Staples             []string `json:"staples,omitempty"`
	ExtraNotes          string   `json:"extra_notes,omitempty"`
}

// PromptValues renders the non-empty preferences as the seed map for a
// pipeline run.
func (p Preferences) PromptValues() map[string]interface{} {
	values := make(map[string]interface{})
	set := func(key string, items []string) {
		if len(items) > 0 {
			values[key] = strings.Join(items, ", ")
		}
	}
	set("likes", p.Likes)
	set("dislikes", p.Dislikes)
	set("preferred_cuisines", p.Cuisines)
	set("dietary_restrictions", p.DietaryRestrictions)
	set("allergies", p.Allergies)
	set("eat_out_days", p.EatOutDays)
	set("staples", p.Staples)
	if p.ExtraNotes != "" {
		values["extra_notes"] = p.ExtraNotes
	}
	return values
}

// Repository is a database-backed repository for user preferences.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Get retrieves the preferences for a user, or nil when none are stored.
func (r *Repository) Get(ctx context.Context, userID string) (*Preferences, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM user_preferences WHERE user_id = ?`, userID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences for user %s: %w", userID, err)
	}

	var prefs Preferences
	if err := json.Unmarshal([]byte(data), &prefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences for user %s: %w", userID, err)
	}
	return &prefs, nil
}

// Save upserts the preferences for a user.
func (r *Repository) Save(ctx context.Context, userID string, prefs Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO user_preferences (user_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save preferences for user %s: %w", userID, err)
	}
	return nil
}

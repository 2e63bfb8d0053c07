package planner

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// StoredPlan is a persisted meal plan row.
type StoredPlan struct {
	ID        int64
	UserID    string
	WeekStart time.Time
	PlanData  []byte // Raw JSON of the meal plan
	CreatedAt time.Time
}

// PlanRepository is a database-backed repository for generated meal plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save inserts a new meal plan into the database.
func (r *PlanRepository) Save(ctx context.Context, userID string, weekStart time.Time, planData []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (user_id, week_start, plan_data, created_at) VALUES (?, ?, ?, ?)`,
		userID, weekStart, planData, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save meal plan for user %s: %w", userID, err)
	}
	return nil
}

// ExistsForWeek reports whether the user already has a plan for the week.
func (r *PlanRepository) ExistsForWeek(ctx context.Context, userID string, weekStart time.Time) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM meal_plans WHERE user_id = ? AND week_start = ?`,
		userID, weekStart,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check plans for user %s: %w", userID, err)
	}
	return count > 0, nil
}

// ListRecent retrieves the N most recent meal plans for a given user.
func (r *PlanRepository) ListRecent(ctx context.Context, userID string, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, week_start, plan_data, created_at
		 FROM meal_plans WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent meal plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var p StoredPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.WeekStart, &p.PlanData, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan row: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

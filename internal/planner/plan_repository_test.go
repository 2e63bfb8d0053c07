package planner

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func testPlanDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// One connection, or each pooled connection would see its own
	// empty in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE meal_plans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		week_start TIMESTAMP NOT NULL,
		plan_data BLOB NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	return db
}

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(testPlanDB(t))

	week1 := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	week2 := time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC)

	if err := repo.Save(ctx, "user-1", week1, []byte(`{"notes":"first"}`)); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := repo.Save(ctx, "user-1", week2, []byte(`{"notes":"second"}`)); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	t.Run("ExistsForWeek", func(t *testing.T) {
		exists, err := repo.ExistsForWeek(ctx, "user-1", week1)
		if err != nil {
			t.Fatalf("ExistsForWeek returned error: %v", err)
		}
		if !exists {
			t.Error("expected a plan for the saved week")
		}

		exists, err = repo.ExistsForWeek(ctx, "user-1", week2.AddDate(0, 0, 7))
		if err != nil {
			t.Fatalf("ExistsForWeek returned error: %v", err)
		}
		if exists {
			t.Error("expected no plan for an unplanned week")
		}

		exists, err = repo.ExistsForWeek(ctx, "user-2", week1)
		if err != nil {
			t.Fatalf("ExistsForWeek returned error: %v", err)
		}
		if exists {
			t.Error("expected no plan for another user")
		}
	})

	t.Run("ListRecent", func(t *testing.T) {
		plans, err := repo.ListRecent(ctx, "user-1", 10)
		if err != nil {
			t.Fatalf("ListRecent returned error: %v", err)
		}
		if len(plans) != 2 {
			t.Fatalf("expected 2 plans, got %d", len(plans))
		}
		for _, p := range plans {
			if p.UserID != "user-1" || len(p.PlanData) == 0 || p.CreatedAt.IsZero() {
				t.Errorf("incomplete stored plan: %+v", p)
			}
		}

		limited, err := repo.ListRecent(ctx, "user-1", 1)
		if err != nil {
			t.Fatalf("ListRecent returned error: %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("expected the limit to apply, got %d plans", len(limited))
		}

		none, err := repo.ListRecent(ctx, "user-2", 10)
		if err != nil {
			t.Fatalf("ListRecent returned error: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("expected no plans for another user, got %d", len(none))
		}
	})
}

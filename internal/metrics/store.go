package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mealworm/internal/shared"
)

// ExecutionMetric records metadata for a single stage execution.
type ExecutionMetric struct {
	AgentName        string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// DailyUsage represents token totals for a single day.
type DailyUsage struct {
	Day              string
	PromptTokens     int64
	CompletionTokens int64
	Executions       int64
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO execution_metrics (agent_name, model, prompt_tokens, completion_tokens, latency_ms, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.AgentName, m.Model, m.PromptTokens, m.CompletionTokens, m.LatencyMS, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to record metric for %s: %w", m.AgentName, err)
	}
	return nil
}

// RecordMeta records metrics directly from shared.AgentMeta.
func (s *Store) RecordMeta(meta shared.AgentMeta) error {
	if meta.Usage.PromptTokens == 0 && meta.Usage.CompletionTokens == 0 {
		return nil
	}
	return s.Record(ExecutionMetric{
		AgentName:        meta.AgentName,
		Model:            meta.Usage.Model,
		PromptTokens:     meta.Usage.PromptTokens,
		CompletionTokens: meta.Usage.CompletionTokens,
		LatencyMS:        meta.Latency.Milliseconds(),
	})
}

// DailyUsage aggregates token usage per day over the last N days.
func (s *Store) DailyUsage(days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT date(timestamp), SUM(prompt_tokens), SUM(completion_tokens), COUNT(*)
		 FROM execution_metrics WHERE timestamp >= ?
		 GROUP BY date(timestamp) ORDER BY date(timestamp) DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily usage: %w", err)
	}
	defer rows.Close()

	var usage []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Day, &u.PromptTokens, &u.CompletionTokens, &u.Executions); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

// Cleanup removes metric records older than the given number of days and
// returns the number of rows deleted.
func (s *Store) Cleanup(days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	result, err := s.db.ExecContext(context.Background(),
		`DELETE FROM execution_metrics WHERE timestamp < ?`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	return result.RowsAffected()
}

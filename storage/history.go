package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nutriplan"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// PlanRecord is a summary row of a generated plan.
type PlanRecord struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	DailyTarget int       `json:"daily_target_calories"`
	Coverage    float64   `json:"coverage"`
	Model       string    `json:"model,omitempty"`
	Conditions  []string  `json:"medical_conditions_applied"`
	Vegetarian  bool      `json:"vegetarian"`
}

// Feedback is a user rating of a plan.
type Feedback struct {
	PlanID    string    `json:"plan_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SQLiteHistory keeps generated plans and the feedback given on them.
type SQLiteHistory struct {
	db  *sql.DB
	now func() time.Time
}

// OpenHistory opens (creating if needed) the history database at path.
func OpenHistory(path string) (*SQLiteHistory, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create history dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	h := &SQLiteHistory{db: db, now: time.Now}
	if err := h.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *SQLiteHistory) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		generated_at TEXT NOT NULL,
		daily_target INTEGER NOT NULL,
		coverage REAL NOT NULL,
		model TEXT NOT NULL DEFAULT '',
		conditions TEXT NOT NULL DEFAULT '',
		vegetarian BOOLEAN NOT NULL DEFAULT 0,
		plan_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plan_id TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plans_generated_at ON plans(generated_at);
	CREATE INDEX IF NOT EXISTS idx_feedback_plan_id ON feedback(plan_id);
	`
	if _, err := h.db.Exec(schema); err != nil {
		return fmt.Errorf("init history schema: %w", err)
	}
	return nil
}

func (h *SQLiteHistory) Close() error {
	return h.db.Close()
}

// RecordPlan stores plan. Recording the same id twice replaces the earlier row.
func (h *SQLiteHistory) RecordPlan(ctx context.Context, plan *nutriplan.MealPlan) error {
	if plan == nil || plan.ID == "" {
		return errors.New("record plan: plan has no id")
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("record plan: %w", err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO plans (id, generated_at, daily_target, coverage, model, conditions, vegetarian, plan_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			generated_at = excluded.generated_at,
			daily_target = excluded.daily_target,
			coverage = excluded.coverage,
			model = excluded.model,
			conditions = excluded.conditions,
			vegetarian = excluded.vegetarian,
			plan_json = excluded.plan_json`,
		plan.ID,
		formatTime(plan.GeneratedAt),
		plan.DailyTarget,
		plan.Coverage,
		plan.Model,
		strings.Join(plan.ConditionsApplied, ","),
		plan.Profile.Vegetarian,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("record plan %s: %w", plan.ID, err)
	}
	return nil
}

// Plan returns the full stored plan.
func (h *SQLiteHistory) Plan(ctx context.Context, id string) (*nutriplan.MealPlan, error) {
	var data string
	err := h.db.QueryRowContext(ctx, `SELECT plan_json FROM plans WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load plan %s: %w", id, err)
	}

	var plan nutriplan.MealPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", id, err)
	}
	return &plan, nil
}

// RecentPlans returns up to limit plans, newest first.
func (h *SQLiteHistory) RecentPlans(ctx context.Context, limit int) ([]PlanRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, generated_at, daily_target, coverage, model, conditions, vegetarian
		FROM plans
		ORDER BY generated_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	records := []PlanRecord{}
	for rows.Next() {
		var (
			r                       PlanRecord
			generatedAt, conditions string
		)
		if err := rows.Scan(&r.ID, &generatedAt, &r.DailyTarget, &r.Coverage, &r.Model, &conditions, &r.Vegetarian); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		if r.GeneratedAt, err = parseTime(generatedAt); err != nil {
			return nil, err
		}
		if conditions != "" {
			r.Conditions = strings.Split(conditions, ",")
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SaveFeedback attaches a 1-5 rating to a recorded plan.
func (h *SQLiteHistory) SaveFeedback(ctx context.Context, planID string, rating int, comment string) (*Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, &nutriplan.InvalidInputError{Field: "rating", Value: float64(rating), Reason: "must be between 1 and 5"}
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin feedback tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM plans WHERE id = ?`, planID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup plan %s: %w", planID, err)
	}

	fb := &Feedback{
		PlanID:    planID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: h.now().UTC(),
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO feedback (plan_id, rating, comment, created_at) VALUES (?, ?, ?, ?)`,
		fb.PlanID, fb.Rating, fb.Comment, formatTime(fb.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit feedback: %w", err)
	}
	return fb, nil
}

// FeedbackFor lists the feedback on a plan, oldest first.
func (h *SQLiteHistory) FeedbackFor(ctx context.Context, planID string) ([]Feedback, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT plan_id, rating, comment, created_at
		FROM feedback
		WHERE plan_id = ?
		ORDER BY created_at, id`, planID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	out := []Feedback{}
	for rows.Next() {
		var (
			fb        Feedback
			createdAt string
		)
		if err := rows.Scan(&fb.PlanID, &fb.Rating, &fb.Comment, &createdAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		if fb.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/climbyou/engine/internal/quest"
)

// PlanRepo stores one plan per user per date. Save is last-write-wins;
// serializing concurrent generations for the same (user, date) is the
// caller's job.
type PlanRepo struct {
	db *sqlx.DB
}

// GetForDate returns the plan for (userID, date), or ErrNotFound.
func (r *PlanRepo) GetForDate(ctx context.Context, userID, date string) (*quest.DailyPlan, error) {
	var doc string
	err := r.db.GetContext(ctx, &doc,
		`SELECT doc FROM daily_plans WHERE user_id = ? AND date = ?`, userID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}

	var p quest.DailyPlan
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decode plan %s/%s: %w", userID, date, err)
	}
	return &p, nil
}

// Save upserts the plan document for its (user, date) key.
func (r *PlanRepo) Save(ctx context.Context, p *quest.DailyPlan) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO daily_plans (user_id, date, doc, generated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET doc = excluded.doc, generated_at = excluded.generated_at`,
		p.UserID, p.Date, string(doc), p.GeneratedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

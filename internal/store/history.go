package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/climbyou/engine/internal/quest"
)

// HistoryRepo appends and reads quest-history records. Rows are never
// updated or deleted; a correction is a new row.
type HistoryRepo struct {
	db *sqlx.DB
}

// historyRow is the scan target; timestamps travel as RFC 3339 text.
type historyRow struct {
	UserID         string  `db:"user_id"`
	QuestID        string  `db:"quest_id"`
	Title          string  `db:"title"`
	Pattern        string  `db:"pattern"`
	Difficulty     float64 `db:"difficulty"`
	PlannedMinutes int     `db:"planned_minutes"`
	ActualMinutes  *int    `db:"actual_minutes"`
	Completed      bool    `db:"completed"`
	Rating         *int    `db:"rating"`
	ResolvedAt     *string `db:"resolved_at"`
	Date           string  `db:"date"`
}

// Append inserts a resolution record.
func (r *HistoryRepo) Append(ctx context.Context, rec quest.HistoryRecord) error {
	var resolvedAt *string
	if rec.ResolvedAt != nil {
		s := rec.ResolvedAt.UTC().Format(time.RFC3339)
		resolvedAt = &s
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quest_history (
			user_id, quest_id, title, pattern, difficulty,
			planned_minutes, actual_minutes, completed, rating,
			resolved_at, date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.QuestID, rec.Title, rec.Pattern, rec.Difficulty,
		rec.PlannedMinutes, rec.ActualMinutes, rec.Completed, rec.Rating,
		resolvedAt, rec.Date)
	if err != nil {
		return fmt.Errorf("append history record: %w", err)
	}
	return nil
}

// Since returns userID's records from sinceDate (inclusive, YYYY-MM-DD)
// onward, ascending by date then insertion order. The caller windows.
func (r *HistoryRepo) Since(ctx context.Context, userID, sinceDate string) ([]quest.HistoryRecord, error) {
	var rows []historyRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT user_id, quest_id, title, pattern, difficulty,
		       planned_minutes, actual_minutes, completed, rating,
		       resolved_at, date
		FROM quest_history
		WHERE user_id = ? AND date >= ?
		ORDER BY date ASC, id ASC`,
		userID, sinceDate)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	records := make([]quest.HistoryRecord, 0, len(rows))
	for _, row := range rows {
		rec := quest.HistoryRecord{
			UserID:         row.UserID,
			QuestID:        row.QuestID,
			Title:          row.Title,
			Pattern:        row.Pattern,
			Difficulty:     row.Difficulty,
			PlannedMinutes: row.PlannedMinutes,
			ActualMinutes:  row.ActualMinutes,
			Completed:      row.Completed,
			Rating:         row.Rating,
			Date:           row.Date,
		}
		if row.ResolvedAt != nil {
			if t, err := time.Parse(time.RFC3339, *row.ResolvedAt); err == nil {
				rec.ResolvedAt = &t
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

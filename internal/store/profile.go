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

// ProfileRepo reads and writes learner profiles. The engine only reads;
// writes belong to onboarding and the CLI's seed path.
type ProfileRepo struct {
	db *sqlx.DB
}

// Get returns the profile for userID, or ErrNotFound.
func (r *ProfileRepo) Get(ctx context.Context, userID string) (*quest.Profile, error) {
	var doc string
	err := r.db.GetContext(ctx, &doc,
		`SELECT doc FROM profiles WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var p quest.Profile
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	p.UserID = userID
	return &p, nil
}

// Save upserts the profile document.
func (r *ProfileRepo) Save(ctx context.Context, p *quest.Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		p.UserID, string(doc), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

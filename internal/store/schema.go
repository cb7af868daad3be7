package store

import "github.com/jmoiron/sqlx"

// Profiles and plans are stored as JSON documents, mirroring the
// document shape the mobile backend uses; history and the request log
// are plain rows. quest_history is append-only: no UPDATE statement
// exists anywhere in this package.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id    TEXT PRIMARY KEY,
		doc        TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quest_history (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id         TEXT NOT NULL,
		quest_id        TEXT NOT NULL,
		title           TEXT NOT NULL,
		pattern         TEXT NOT NULL DEFAULT '',
		difficulty      REAL NOT NULL,
		planned_minutes INTEGER NOT NULL,
		actual_minutes  INTEGER,
		completed       INTEGER NOT NULL,
		rating          INTEGER,
		resolved_at     TEXT,
		date            TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quest_history_user_date
		ON quest_history (user_id, date)`,
	`CREATE TABLE IF NOT EXISTS daily_plans (
		user_id      TEXT NOT NULL,
		date         TEXT NOT NULL,
		doc          TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	)`,
}

func initSchema(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

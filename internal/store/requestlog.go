package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/climbyou/engine/internal/llm"
)

// RequestLogRepo persists completion-request records. It satisfies
// llm.RequestLog so the provider's logging middleware can write here.
type RequestLogRepo struct {
	db *sqlx.DB
}

var _ llm.RequestLog = (*RequestLogRepo)(nil)

// RequestLogRecord is one logged completion call.
type RequestLogRecord struct {
	ID           int64  `db:"id"`
	Provider     string `db:"provider"`
	Model        string `db:"model"`
	Purpose      string `db:"purpose"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	LatencyMs    int64  `db:"latency_ms"`
	Success      bool   `db:"success"`
	ErrorMessage string `db:"error_message"`
	CreatedAt    string `db:"created_at"`
}

// Append records one completion call.
func (r *RequestLogRepo) Append(ctx context.Context, entry llm.RequestLogEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO llm_requests (
			provider, model, purpose, input_tokens, output_tokens,
			latency_ms, success, error_message, request_body,
			response_body, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Provider, entry.Model, entry.Purpose, entry.InputTokens,
		entry.OutputTokens, entry.LatencyMs, entry.Success,
		entry.ErrorMessage, entry.RequestBody, entry.ResponseBody,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("append request log: %w", err)
	}
	return nil
}

// Recent returns the newest limit records, newest first.
func (r *RequestLogRepo) Recent(ctx context.Context, limit int) ([]RequestLogRecord, error) {
	var records []RequestLogRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, provider, model, purpose, input_tokens, output_tokens,
		       latency_ms, success, error_message, created_at
		FROM llm_requests
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query request log: %w", err)
	}
	return records, nil
}

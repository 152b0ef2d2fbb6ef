package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo is the Postgres-backed transcript store.
type PGRepo struct {
	DB *sql.DB
}

// Load returns the flat transcript text for a document, "" when absent.
func (r *PGRepo) Load(ctx context.Context, documentID string) (string, error) {
	const q = `SELECT history_text FROM transcripts WHERE document_id = $1`

	var historyText string
	err := r.DB.QueryRowContext(ctx, q, documentID).Scan(&historyText)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load transcript: %w", err)
	}
	return historyText, nil
}

// Append upserts the exchange in a single statement so concurrent appends
// serialize inside Postgres instead of racing a read-modify-write.
func (r *PGRepo) Append(ctx context.Context, documentID, firstBlock, nextBlock string) error {
	const q = `
		INSERT INTO transcripts (document_id, history_text, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (document_id)
		DO UPDATE SET history_text = transcripts.history_text || $3, updated_at = now()`

	if _, err := r.DB.ExecContext(ctx, q, documentID, firstBlock, nextBlock); err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	return nil
}

// Delete removes a document's transcript. No rows affected is fine.
func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	const q = `DELETE FROM transcripts WHERE document_id = $1`

	if _, err := r.DB.ExecContext(ctx, q, documentID); err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)

package documents

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document. A (user_id, file_name) collision maps to
// ErrDuplicate via the unique constraint, so concurrent uploads cannot race
// past a pre-check.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, user_id, file_name, mime_type, size_bytes, storage_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.StorageKey,
		doc.CreatedAt,
	)
	if err != nil && strings.Contains(err.Error(), "documents_owner_filename_unique") {
		return ErrDuplicate
	}
	return err
}

// GetByID fetches a document by ID. Ownership is checked by the service so
// that a wrong-owner read can be distinguished from a missing document.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT id, user_id, file_name, mime_type, size_bytes, storage_key, created_at
FROM documents
WHERE id = $1
LIMIT 1`
	var doc Document
	var mimeType sql.NullString
	err := r.DB.QueryRowContext(ctx, query, documentID).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&mimeType,
		&doc.SizeBytes,
		&doc.StorageKey,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if mimeType.Valid {
		doc.MimeType = mimeType.String
	}
	return doc, nil
}

// ListByUser lists documents ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, user_id, file_name, mime_type, size_bytes, storage_key, created_at
FROM documents
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		var mimeType sql.NullString
		if err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.FileName,
			&mimeType,
			&doc.SizeBytes,
			&doc.StorageKey,
			&doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		if mimeType.Valid {
			doc.MimeType = mimeType.String
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Delete removes the document row.
func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	const query = `DELETE FROM documents WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, documentID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)

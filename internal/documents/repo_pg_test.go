package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	doc := Document{
		ID:         "doc-1",
		UserID:     "user-1",
		FileName:   "notes.txt",
		MimeType:   "text/plain",
		SizeBytes:  5,
		StorageKey: "abc/notes.txt",
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(doc.ID, doc.UserID, doc.FileName, doc.MimeType, doc.SizeBytes, doc.StorageKey, doc.CreatedAt).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "documents_owner_filename_unique"`))

	if err := repo.Create(context.Background(), doc); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT id, user_id, file_name").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "file_name", "mime_type", "size_bytes", "storage_key", "created_at"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("DELETE FROM documents").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

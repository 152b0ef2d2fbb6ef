package chat

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoLoadMissingTranscript(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT history_text FROM transcripts").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"history_text"}))

	historyText, err := repo.Load(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if historyText != "" {
		t.Fatalf("missing transcript must load as empty, got %q", historyText)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoAppendUpsertsInOneStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	first := RenderExchange("q", "a", false)
	next := RenderExchange("q", "a", true)

	mock.ExpectExec("INSERT INTO transcripts").
		WithArgs("doc-1", first, next).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Append(context.Background(), "doc-1", first, next); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("DELETE FROM transcripts").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "doc-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

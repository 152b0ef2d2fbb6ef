package documents

import (
	"context"
	"errors"
	"strings"
	"testing"

	localstore "docchat-backend/internal/shared/storage/object/local"
)

type recordingDeleter struct {
	deleted []string
}

func (d *recordingDeleter) Delete(ctx context.Context, documentID string) error {
	d.deleted = append(d.deleted, documentID)
	return nil
}

func newTestDocService(t *testing.T) (*Service, *recordingDeleter) {
	t.Helper()
	deleter := &recordingDeleter{}
	svc := &Service{
		Store:       localstore.New(t.TempDir()),
		Repo:        NewMemoryRepo(),
		Transcripts: deleter,
	}
	return svc, deleter
}

func TestUploadAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestDocService(t)

	doc, err := svc.Upload(ctx, "user-1", "notes.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.ID == "" || doc.StorageKey == "" {
		t.Fatalf("upload must assign id and storage key: %+v", doc)
	}
	if doc.SizeBytes != int64(len("hello")) {
		t.Fatalf("unexpected size: %d", doc.SizeBytes)
	}

	got, err := svc.Get(ctx, "user-1", doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FileName != "notes.txt" {
		t.Fatalf("unexpected filename: %q", got.FileName)
	}
}

func TestUploadDuplicateFilenameRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestDocService(t)

	if _, err := svc.Upload(ctx, "user-1", "notes.txt", strings.NewReader("v1")); err != nil {
		t.Fatalf("first Upload: %v", err)
	}

	_, err := svc.Upload(ctx, "user-1", "notes.txt", strings.NewReader("v2"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// The first upload survives untouched.
	docs, err := svc.List(ctx, "user-1", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}

	// A different owner can reuse the filename.
	if _, err := svc.Upload(ctx, "user-2", "notes.txt", strings.NewReader("v3")); err != nil {
		t.Fatalf("other-owner Upload: %v", err)
	}
}

func TestGetForeignDocumentForbidden(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestDocService(t)

	doc, err := svc.Upload(ctx, "user-1", "notes.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	_, err = svc.Get(ctx, "user-2", doc.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	_, err = svc.Get(ctx, "user-1", "no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesRecordTranscriptAndBytes(t *testing.T) {
	ctx := context.Background()
	svc, deleter := newTestDocService(t)

	doc, err := svc.Upload(ctx, "user-1", "notes.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := svc.Delete(ctx, "user-1", doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.Get(ctx, "user-1", doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if len(deleter.deleted) != 1 || deleter.deleted[0] != doc.ID {
		t.Fatalf("transcript delete not cascaded: %#v", deleter.deleted)
	}
	if _, err := svc.Store.Open(ctx, doc.StorageKey); err == nil {
		t.Fatalf("stored bytes must be gone after delete")
	}
}

func TestDeleteForeignDocumentForbidden(t *testing.T) {
	ctx := context.Background()
	svc, deleter := newTestDocService(t)

	doc, err := svc.Upload(ctx, "user-1", "notes.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := svc.Delete(ctx, "user-2", doc.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(deleter.deleted) != 0 {
		t.Fatalf("forbidden delete must not cascade: %#v", deleter.deleted)
	}
	if _, err := svc.Get(ctx, "user-1", doc.ID); err != nil {
		t.Fatalf("document must survive a forbidden delete: %v", err)
	}
}

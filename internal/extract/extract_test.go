package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	localstore "docchat-backend/internal/shared/storage/object/local"
)

func TestFromBytesPlainText(t *testing.T) {
	text, err := FromBytes([]byte("Paris is the capital of France."), "notes.TXT")
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if text != "Paris is the capital of France." {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestFromBytesUnsupportedExtension(t *testing.T) {
	_, err := FromBytes([]byte("x"), "archive.zip")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFromBytesCorruptPDF(t *testing.T) {
	_, err := FromBytes([]byte("definitely not a pdf"), "broken.pdf")
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestFromStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := localstore.New(t.TempDir())

	key, _, _, err := store.Save(ctx, "user-1", "notes.txt", strings.NewReader("hello from disk"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	text, err := FromStore(ctx, store, key, "notes.txt")
	if err != nil {
		t.Fatalf("FromStore: %v", err)
	}
	if text != "hello from disk" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestFromStoreMissingKey(t *testing.T) {
	ctx := context.Background()
	store := localstore.New(t.TempDir())

	_, err := FromStore(ctx, store, "nope/missing.txt", "missing.txt")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

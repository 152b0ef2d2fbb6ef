package documents

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"docchat-backend/internal/shared/storage/object"
	"docchat-backend/internal/shared/telemetry"
)

// TranscriptDeleter removes the conversation transcript tied to a document.
// Implemented by the chat repo; an interface here avoids a package cycle.
type TranscriptDeleter interface {
	Delete(ctx context.Context, documentID string) error
}

// Service contains business logic for documents.
type Service struct {
	Store       object.ObjectStore
	Repo        Repo
	Transcripts TranscriptDeleter
}

// Upload saves the file to object storage and records the document. A second
// upload with the same (owner, filename) is rejected and the first record is
// left unchanged.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Document, error) {
	if fileName == "" {
		return Document{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		// The record never existed; drop the just-written bytes.
		if delErr := s.Store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Warn("document.upload.cleanup_failed", map[string]any{
				"storage_key": storageKey,
				"error":       delErr.Error(),
			})
		}
		return Document{}, err
	}

	return doc, nil
}

// Get returns the document if it exists and belongs to the user.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if userID == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.UserID != userID {
		return Document{}, ErrForbidden
	}
	return doc, nil
}

// List returns the user's documents, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if userID == "" {
		return nil, errors.New("user id required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes the record, then the transcript, then the stored bytes, in
// that order. A surviving file with no record is a cleanable leak; a record
// pointing at deleted bytes is not, so disk removal always goes last.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	doc, err := s.Get(ctx, userID, documentID)
	if err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, documentID); err != nil {
		return err
	}

	if s.Transcripts != nil {
		if err := s.Transcripts.Delete(ctx, documentID); err != nil {
			telemetry.Warn("document.delete.transcript_failed", map[string]any{
				"document_id": documentID,
				"error":       err.Error(),
			})
		}
	}

	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		telemetry.Warn("document.delete.bytes_failed", map[string]any{
			"document_id": documentID,
			"storage_key": doc.StorageKey,
			"error":       err.Error(),
		})
	}
	return nil
}

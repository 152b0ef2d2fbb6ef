package documents

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory Repo for dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document)}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.docs {
		if existing.UserID == doc.UserID && strings.EqualFold(existing.FileName, doc.FileName) {
			return ErrDuplicate
		}
	}
	r.docs[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[documentID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Document
	for _, doc := range r.docs {
		if doc.UserID == userID {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[documentID]; !ok {
		return ErrNotFound
	}
	delete(r.docs, documentID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)

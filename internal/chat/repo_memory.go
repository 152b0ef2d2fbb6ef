package chat

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory transcript store for tests and DB-less runs.
type MemoryRepo struct {
	mu   sync.Mutex
	byID map[string]string
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]string)}
}

// Load returns the flat transcript text for a document, "" when absent.
func (r *MemoryRepo) Load(ctx context.Context, documentID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[documentID], nil
}

// Append holds the lock across the read-modify-write so concurrent appends
// never lose an exchange.
func (r *MemoryRepo) Append(ctx context.Context, documentID, firstBlock, nextBlock string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[documentID]; ok {
		r.byID[documentID] = existing + nextBlock
	} else {
		r.byID[documentID] = firstBlock
	}
	return nil
}

// Delete removes a document's transcript.
func (r *MemoryRepo) Delete(ctx context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, documentID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)

package documents

import "time"

// Document represents an uploaded document owned by a user. Exactly one
// document may exist per (UserID, FileName) pair.
type Document struct {
	ID         string
	UserID     string
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	CreatedAt  time.Time
}

package chat

import "context"

// Repo stores one flat transcript per document.
//
// Append must be atomic per document: two concurrent appends both land, in
// some order, with neither lost.
type Repo interface {
	// Load returns the flat transcript text, or "" when none exists yet.
	Load(ctx context.Context, documentID string) (string, error)
	// Append adds an encoded exchange to the document's transcript,
	// creating the transcript on first use.
	Append(ctx context.Context, documentID, firstBlock, nextBlock string) error
	// Delete removes the transcript. Deleting a missing transcript is not
	// an error.
	Delete(ctx context.Context, documentID string) error
}

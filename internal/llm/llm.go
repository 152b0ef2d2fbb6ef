package llm

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable marks a failed call to the text-generation backend.
	ErrUnavailable = errors.New("oracle unavailable")
	// ErrTimeout marks a call that exceeded its deadline.
	ErrTimeout = errors.New("oracle timeout")
)

// Oracle abstracts the external text-generation service.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Placeholder is a stub implementation until provider wiring is added.
type Placeholder struct{}

// Generate returns ErrUnavailable.
func (Placeholder) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrUnavailable
}

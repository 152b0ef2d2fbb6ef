package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"docchat-backend/internal/documents"
	"docchat-backend/internal/llm"
	"docchat-backend/internal/shared/metrics"
	"docchat-backend/internal/shared/storage/object"
	"docchat-backend/internal/shared/telemetry"
)

// ErrEmptyQuestion marks an ask request with no usable question text.
var ErrEmptyQuestion = errors.New("question must not be empty")

// Extractor pulls text out of a stored document.
type Extractor func(ctx context.Context, store object.ObjectStore, storageKey, fileName string) (string, error)

// Summary is the result of a summarize request.
type Summary struct {
	Text     string
	Bullets  []string
	FileName string
}

// AskResult carries the oracle's answer plus whether the exchange made it
// into the transcript. The answer is returned either way; a false Persisted
// means the next History call will not show this exchange.
type AskResult struct {
	Answer    string
	Persisted bool
}

// Service contains business logic for summaries and grounded Q&A.
type Service struct {
	Docs          *documents.Service
	Store         object.ObjectStore
	Repo          Repo
	Oracle        llm.Oracle
	Extract       Extractor
	OracleTimeout time.Duration
}

// Summarize extracts the document's text and asks the oracle for a summary
// in the requested style and length.
func (s *Service) Summarize(ctx context.Context, userID, documentID, style, length string) (Summary, error) {
	doc, err := s.Docs.Get(ctx, userID, documentID)
	if err != nil {
		return Summary{}, err
	}

	text, err := s.Extract(ctx, s.Store, doc.StorageKey, doc.FileName)
	if err != nil {
		return Summary{}, err
	}

	raw, err := s.callOracle(ctx, SummaryPrompt(style, length, text))
	if err != nil {
		return Summary{}, err
	}

	metrics.IncSummaries()

	out := Summary{FileName: doc.FileName}
	if style == StyleBullet {
		out.Bullets = ParseBullets(raw)
	} else {
		out.Text = raw
	}
	return out, nil
}

// Ask answers a question grounded in the document's text and prior turns,
// then appends the exchange to the transcript. A failed append downgrades
// Persisted instead of failing the request; the caller already has the
// answer and re-asking would cost another oracle call.
func (s *Service) Ask(ctx context.Context, userID, documentID, question string) (AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return AskResult{}, ErrEmptyQuestion
	}

	doc, err := s.Docs.Get(ctx, userID, documentID)
	if err != nil {
		return AskResult{}, err
	}

	text, err := s.Extract(ctx, s.Store, doc.StorageKey, doc.FileName)
	if err != nil {
		return AskResult{}, err
	}

	historyText, err := s.Repo.Load(ctx, documentID)
	if err != nil {
		return AskResult{}, err
	}

	answer, err := s.callOracle(ctx, QAPrompt(text, historyText, question))
	if err != nil {
		return AskResult{}, err
	}

	metrics.IncQuestions()

	result := AskResult{Answer: answer, Persisted: true}
	first := RenderExchange(question, answer, false)
	next := RenderExchange(question, answer, true)
	if err := s.Repo.Append(ctx, documentID, first, next); err != nil {
		telemetry.Warn("chat.ask.append_failed", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
		metrics.IncTranscriptStale()
		result.Persisted = false
	}
	return result, nil
}

// History returns the document's transcript as structured turns, oldest
// first. A document with no transcript yet yields an empty slice.
func (s *Service) History(ctx context.Context, userID, documentID string) ([]Turn, error) {
	if _, err := s.Docs.Get(ctx, userID, documentID); err != nil {
		return nil, err
	}

	historyText, err := s.Repo.Load(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return ParseHistory(historyText), nil
}

func (s *Service) callOracle(ctx context.Context, prompt string) (string, error) {
	if s.OracleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.OracleTimeout)
		defer cancel()
	}

	start := time.Now()
	out, err := s.Oracle.Generate(ctx, prompt)
	metrics.ObserveOracleDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncOracleFailed()
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", llm.ErrTimeout, err)
		}
		return "", err
	}
	return out, nil
}

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"docchat-backend/internal/documents"
	"docchat-backend/internal/extract"
	"docchat-backend/internal/llm"
	localstore "docchat-backend/internal/shared/storage/object/local"
)

type fakeOracle struct {
	replies []string
	err     error
	prompts []string
}

func (f *fakeOracle) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "ok", nil
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

type blockingOracle struct{}

func (blockingOracle) Generate(ctx context.Context, prompt string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type failingAppendRepo struct {
	Repo
}

func (failingAppendRepo) Append(ctx context.Context, documentID, firstBlock, nextBlock string) error {
	return errors.New("connection reset")
}

func newTestService(t *testing.T, oracle llm.Oracle) (*Service, string) {
	t.Helper()
	store := localstore.New(t.TempDir())
	docs := &documents.Service{
		Store: store,
		Repo:  documents.NewMemoryRepo(),
	}

	doc, err := docs.Upload(context.Background(), "user-1", "notes.txt",
		strings.NewReader("The project ships in March. The lead is Dana."))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	svc := &Service{
		Docs:    docs,
		Store:   store,
		Repo:    NewMemoryRepo(),
		Oracle:  oracle,
		Extract: extract.FromStore,
	}
	return svc, doc.ID
}

func TestAskRoundTripPersistsHistory(t *testing.T) {
	ctx := context.Background()
	oracle := &fakeOracle{replies: []string{"It ships in March.", "Dana leads it."}}
	svc, docID := newTestService(t, oracle)

	res, err := svc.Ask(ctx, "user-1", docID, "When does it ship?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if res.Answer != "It ships in March." || !res.Persisted {
		t.Fatalf("unexpected result: %+v", res)
	}

	if _, err := svc.Ask(ctx, "user-1", docID, "Who leads it?"); err != nil {
		t.Fatalf("second Ask: %v", err)
	}

	turns, err := svc.History(ctx, "user-1", docID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(turns) != 4 {
		t.Fatalf("expected 4 turns, got %d: %#v", len(turns), turns)
	}
	if turns[0].Sender != SenderUser || turns[0].Text != "When does it ship?" {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[3].Sender != SenderAssistant || turns[3].Text != "Dana leads it." {
		t.Fatalf("unexpected last turn: %+v", turns[3])
	}

	// The second oracle call must see the first exchange.
	if len(oracle.prompts) != 2 || !strings.Contains(oracle.prompts[1], "When does it ship?") {
		t.Fatalf("second prompt missing prior turn:\n%s", oracle.prompts[len(oracle.prompts)-1])
	}
}

func TestAskForbiddenLeavesTranscriptUntouched(t *testing.T) {
	ctx := context.Background()
	oracle := &fakeOracle{}
	svc, docID := newTestService(t, oracle)

	_, err := svc.Ask(ctx, "intruder", docID, "what is inside?")
	if !errors.Is(err, documents.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(oracle.prompts) != 0 {
		t.Fatalf("oracle must not be called for a foreign document")
	}

	turns, err := svc.History(ctx, "user-1", docID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("transcript must stay empty, got %#v", turns)
	}
}

func TestAskOracleFailureAppendsNothing(t *testing.T) {
	ctx := context.Background()
	oracle := &fakeOracle{err: fmt.Errorf("%w: boom", llm.ErrUnavailable)}
	svc, docID := newTestService(t, oracle)

	_, err := svc.Ask(ctx, "user-1", docID, "anything?")
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	turns, err := svc.History(ctx, "user-1", docID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("failed ask must not append, got %#v", turns)
	}
}

func TestAskTimeoutMapsToErrTimeout(t *testing.T) {
	ctx := context.Background()
	svc, docID := newTestService(t, blockingOracle{})
	svc.OracleTimeout = 10 * time.Millisecond

	_, err := svc.Ask(ctx, "user-1", docID, "slow question")
	if !errors.Is(err, llm.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}

	turns, err := svc.History(ctx, "user-1", docID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("timed-out ask must not append, got %#v", turns)
	}
}

func TestAskAppendFailureStillReturnsAnswer(t *testing.T) {
	ctx := context.Background()
	oracle := &fakeOracle{replies: []string{"an answer"}}
	svc, docID := newTestService(t, oracle)
	svc.Repo = failingAppendRepo{Repo: svc.Repo}

	res, err := svc.Ask(ctx, "user-1", docID, "a question")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if res.Answer != "an answer" {
		t.Fatalf("unexpected answer: %q", res.Answer)
	}
	if res.Persisted {
		t.Fatalf("failed append must report Persisted=false")
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	svc, docID := newTestService(t, &fakeOracle{})

	_, err := svc.Ask(context.Background(), "user-1", docID, "   ")
	if !errors.Is(err, ErrEmptyQuestion) {
		t.Fatalf("expected ErrEmptyQuestion, got %v", err)
	}
}

func TestSummarizeBulletStyle(t *testing.T) {
	oracle := &fakeOracle{replies: []string{"* ships in March\n* Dana leads"}}
	svc, docID := newTestService(t, oracle)

	summary, err := svc.Summarize(context.Background(), "user-1", docID, StyleBullet, LengthShort)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.FileName != "notes.txt" {
		t.Fatalf("unexpected filename: %q", summary.FileName)
	}
	if len(summary.Bullets) != 2 || summary.Bullets[0] != "ships in March" {
		t.Fatalf("unexpected bullets: %#v", summary.Bullets)
	}
	if summary.Text != "" {
		t.Fatalf("bullet summaries must not set Text, got %q", summary.Text)
	}
}

func TestSummarizeParagraphStyle(t *testing.T) {
	oracle := &fakeOracle{replies: []string{"The project ships in March under Dana."}}
	svc, docID := newTestService(t, oracle)

	summary, err := svc.Summarize(context.Background(), "user-1", docID, StyleParagraph, LengthMedium)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Text != "The project ships in March under Dana." {
		t.Fatalf("unexpected text: %q", summary.Text)
	}
	if summary.Bullets != nil {
		t.Fatalf("paragraph summaries must not set Bullets, got %#v", summary.Bullets)
	}
}

func TestHistoryEmptyForFreshDocument(t *testing.T) {
	svc, docID := newTestService(t, &fakeOracle{})

	turns, err := svc.History(context.Background(), "user-1", docID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if turns == nil || len(turns) != 0 {
		t.Fatalf("expected empty non-nil turn list, got %#v", turns)
	}
}

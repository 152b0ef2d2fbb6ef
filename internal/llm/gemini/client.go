package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"docchat-backend/internal/llm"
)

const defaultModelName = "gemini-1.5-flash"

// Client implements llm.Oracle using the Gemini API.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewClient constructs a new Gemini client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModelName
	}

	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		client: genaiClient,
		model:  genaiClient.GenerativeModel(model),
	}, nil
}

// Generate sends the prompt and concatenates the first candidate's text parts.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", llm.ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", llm.ErrUnavailable, err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		break
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("%w: empty response", llm.ErrUnavailable)
	}
	return out, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	return c.client.Close()
}

var _ llm.Oracle = (*Client)(nil)

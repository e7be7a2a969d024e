package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"jobpass-backend/internal/ai"
)

const defaultModel = "gemini-2.5-flash"

// Client implements ai.Client using the Gemini API. The resume document is
// sent inline next to the prompt, so no provider-side file cleanup is needed.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewClient constructs a Gemini client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		client:  client,
		model:   model,
		timeout: 90 * time.Second,
	}, nil
}

// Analyze sends the prompt and inline document to Gemini and returns the raw text.
func (c *Client) Analyze(ctx context.Context, req ai.Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	model := req.Model
	if strings.TrimSpace(model) == "" {
		model = c.model
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if len(req.Document.Data) > 0 {
		mimeType := req.Document.MimeType
		if mimeType == "" {
			mimeType = "application/pdf"
		}
		parts = append(parts, genai.NewPartFromBytes(req.Document.Data, mimeType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(callCtx, model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0)),
	})
	if err != nil {
		return "", classify(err)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}
	return text, nil
}

// extractText tolerates both response shapes: a single aggregated text and
// an array of content blocks where the first block carries the text.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ai.ErrEmptyContent
	}
	if text := strings.TrimSpace(resp.Text()); text != "" {
		return text, nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if text := strings.TrimSpace(part.Text); text != "" {
				return text, nil
			}
		}
	}
	return "", ai.ErrEmptyContent
}

func classify(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 400, 401, 403, 404, 429:
			return fmt.Errorf("%w: gemini: %s", ai.ErrRejected, apiErr.Message)
		default:
			return fmt.Errorf("%w: gemini: %s", ai.ErrUnavailable, apiErr.Message)
		}
	}
	return fmt.Errorf("%w: gemini: %v", ai.ErrUnavailable, err)
}

var _ ai.Client = (*Client)(nil)

package openrouter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"jobpass-backend/internal/ai"
	"jobpass-backend/internal/extract"
)

const (
	chatCompletionsURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel       = "openai/gpt-4o-mini"
)

// Client implements ai.Client against the OpenRouter chat-completions API.
// OpenRouter takes text only, so the PDF document is converted to plain text
// before the call.
type Client struct {
	http  *resty.Client
	model string
}

// NewClient constructs an OpenRouter client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}

	http := resty.New().
		SetBaseURL(chatCompletionsURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(90 * time.Second)

	return &Client{http: http, model: model}, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Analyze extracts the document text, sends it with the prompt, and returns
// the raw assistant message content.
func (c *Client) Analyze(ctx context.Context, req ai.Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	model := req.Model
	if strings.TrimSpace(model) == "" {
		model = c.model
	}

	content := req.Prompt
	if len(req.Document.Data) > 0 {
		text, err := extract.TextFromPDF(ctx, req.Document.Data)
		if err != nil {
			return "", fmt.Errorf("%w: openrouter: %v", ai.ErrRejected, err)
		}
		content = req.Prompt + "\n\nResume:\n" + text
	}

	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: content},
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("")
	if err != nil {
		return "", fmt.Errorf("%w: openrouter: %v", ai.ErrUnavailable, err)
	}

	body := resp.String()
	if resp.IsError() {
		message := gjson.Get(body, "error.message").String()
		if message == "" {
			message = resp.Status()
		}
		switch code := resp.StatusCode(); {
		case code == 400 || code == 401 || code == 403 || code == 404 || code == 429:
			return "", fmt.Errorf("%w: openrouter: %s", ai.ErrRejected, message)
		default:
			return "", fmt.Errorf("%w: openrouter: %s", ai.ErrUnavailable, message)
		}
	}

	text := strings.TrimSpace(gjson.Get(body, "choices.0.message.content").String())
	if text == "" {
		return "", ai.ErrEmptyContent
	}
	return text, nil
}

var _ ai.Client = (*Client)(nil)

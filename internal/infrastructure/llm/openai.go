package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Client talks to any OpenAI-compatible completion endpoint. Every call gets
// a bounded timeout and at most one retry on a transient transport failure;
// the upstream design had neither, which left requests hanging on a slow
// provider.
type Client struct {
	modelName string
	timeout   time.Duration
	client    *openai.Client
}

// NewClient fails when the credential is missing so that a misconfigured
// deployment dies at startup instead of on the first categorization.
func NewClient(apiKey, baseURL, modelName string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("llm: api key is required")
	}
	if modelName == "" {
		return nil, errors.New("llm: model name is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Client{
		modelName: modelName,
		timeout:   timeout,
		client:    openai.NewClientWithConfig(config),
	}, nil
}

// Complete sends prompt as a single user turn and returns the trimmed text.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.1, // low temperature keeps category answers stable
	}

	text, err := c.complete(ctx, req)
	if err != nil && isTransient(err) && ctx.Err() == nil {
		slog.Warn("completion request failed, retrying once", "error", err)
		text, err = c.complete(ctx, req)
	}
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	return text, nil
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// isTransient reports whether a second attempt could plausibly succeed:
// rate limits, provider 5xx and plain network errors qualify, client-side
// 4xx and cancellations do not.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode >= 500
	}
	// Anything that never produced an HTTP status (dial failure, timeout).
	return true
}

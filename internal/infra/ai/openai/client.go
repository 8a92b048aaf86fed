package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/artspace/room-analyzer/internal/domain/ai"
	"github.com/artspace/room-analyzer/internal/infra/ai/prompt"
)

const (
	defaultModel = "gpt-4o-mini"
	// maxTokens caps every completion; the prompt's JSON fits well inside it.
	maxTokens = 1000
)

type Client struct {
	*openai.Client
	Model string

	hasKey bool
}

// NewClient builds a client for the given key. baseURL may be empty for the public API.
// An empty key is accepted; every call then fails with ErrMissingAPIKey.
func NewClient(apiKey, model, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		Client: openai.NewClientWithConfig(cfg),
		Model:  model,
		hasKey: apiKey != "",
	}
}

func (c *Client) AnalyzeRoom(ctx context.Context, imageBase64 string) (string, error) {
	if !c.hasKey {
		return "", domai.ErrMissingAPIKey
	}

	resp, err := c.CreateChatCompletion(ctx, c.buildRequest(imageBase64))
	if err != nil {
		if isQuotaError(err) {
			return "", fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", domai.ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) buildRequest(imageBase64 string) openai.ChatCompletionRequest {
	model := c.Model
	if model == "" {
		model = defaultModel
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt.GetUserPrompt()},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: prompt.ImageDataURL(imageBase64)},
					},
				},
			},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}
	return req
}

func isQuotaError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}

package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNotConfigured is returned by model calls when no API key is set.
	ErrNotConfigured = errors.New("text model not configured")
	// ErrUnavailable means question answering is disabled for this deployment.
	ErrUnavailable = errors.New("AI unavailable")
)

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completion is a chat request to the text model.
type Completion struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// LLM is the external text-generation dependency.
type LLM interface {
	Complete(ctx context.Context, req Completion) (string, error)
}

// OpenAI is an LLM backed by an OpenAI-compatible chat completions API.
type OpenAI struct {
	client *resty.Client
	model  string
	hasKey bool
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewOpenAI returns a client for baseURL (e.g. https://api.openai.com/v1).
func NewOpenAI(baseURL, apiKey, model string, timeout time.Duration) *OpenAI {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &OpenAI{client: c, model: model, hasKey: apiKey != ""}
}

// Complete sends req and returns the first choice's text.
func (o *OpenAI) Complete(ctx context.Context, req Completion) (string, error) {
	if !o.hasKey {
		return "", ErrNotConfigured
	}
	var out chatResponse
	var apiErr apiError
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       o.model,
			Messages:    req.Messages,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error.Message != "" {
			return "", fmt.Errorf("chat completion status %d: %s", resp.StatusCode(), apiErr.Error.Message)
		}
		return "", fmt.Errorf("chat completion status %d", resp.StatusCode())
	}
	if len(out.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// Ping checks that the API is reachable with the configured key.
func (o *OpenAI) Ping(ctx context.Context) error {
	if !o.hasKey {
		return ErrNotConfigured
	}
	resp, err := o.client.R().SetContext(ctx).Get("/models")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("models status %d", resp.StatusCode())
	}
	return nil
}

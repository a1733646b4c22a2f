// Package openai provides an OpenAI backed completer for the assistant.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = openai.GPT3Dot5Turbo

// completionTemperature keeps intent replies close to deterministic.
const completionTemperature = 0.1

// Client wraps the OpenAI Chat Completions API behind the assistant's
// prompt-based completer contract.
type Client struct {
	client    *openai.Client
	modelName string
}

// NewClient creates a new Client for the given API key and model name.
func NewClient(apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{
		client:    openai.NewClient(apiKey),
		modelName: model,
	}, nil
}

// Complete sends the prompt as a single user message and returns the
// first choice's content.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("openai client is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: completionTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai api returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("openai api returned empty response")
	}

	return content, nil
}

func (c *Client) Provider() string {
	return "openai"
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

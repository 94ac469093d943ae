package news

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"kalshi-alpha/pkg/types"
)

// Completer is the LLM capability the analyzer depends on. Keeping the
// provider behind this interface makes the pipeline testable with a fake.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIClient implements Completer against an OpenAI-compatible
// chat-completions endpoint.
type OpenAIClient struct {
	http        *resty.Client
	model       string
	temperature float64
}

// OpenAIConfig holds LLM client configuration.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// NewOpenAIClient creates a chat-completions client. Temperature is held
// at 0.1: the analyzer wants near-deterministic classification, and the
// response is advisory either way.
func NewOpenAIClient(cfg *OpenAIConfig) *OpenAIClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &OpenAIClient{
		http:        client,
		model:       cfg.Model,
		temperature: 0.1,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user exchange and returns the raw assistant
// text.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var result chatResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&chatRequest{
			Model:       c.model,
			Temperature: c.temperature,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: userPrompt},
			},
		}).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", &types.LLMError{Message: "chat completion request", Err: err}
	}
	if resp.IsError() {
		return "", &types.LLMError{
			Message: fmt.Sprintf("chat completion: HTTP %d: %s", resp.StatusCode(), truncate(resp.String(), 200)),
		}
	}
	if len(result.Choices) == 0 {
		return "", &types.LLMError{Message: "chat completion: empty choices"}
	}

	return result.Choices[0].Message.Content, nil
}

// truncate caps s at n bytes, backing off to the previous rune boundary
// so multi-byte feed text is never cut mid-character.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

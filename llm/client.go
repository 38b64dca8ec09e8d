// Package llm wraps the external text-generation service behind a small
// request/response contract. All calls are bounded by the configured
// timeout and transient failures are retried with backoff; neither the
// client library's error types nor its request shapes leak upward.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"videoInsight/config"
	"videoInsight/core"
)

// Request describes one generation call.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Client is the generation service consumed by summarization, QA,
// keyword extraction, translation and quiz building.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewClient builds a client for the configured provider.
func NewClient(cfg *config.Config) Client {
	switch strings.ToLower(cfg.LLMProvider) {
	case "mock":
		return &MockClient{}
	default:
		return newOpenAIClient(cfg)
	}
}

// ---------------- OpenAI-compatible implementation ----------------

type OpenAIClient struct {
	cli        *openai.Client
	chatModel  string
	embedModel string
	timeout    time.Duration
	maxRetries int
}

func newOpenAIClient(cfg *config.Config) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		cli:        openai.NewClientWithConfig(clientConfig),
		chatModel:  cfg.ChatModel,
		embedModel: cfg.EmbeddingModel,
		timeout:    time.Duration(cfg.RequestTimeoutSec) * time.Second,
		maxRetries: cfg.MaxRetries,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	var content string
	err := c.withRetry(ctx, "chat completion", func(callCtx context.Context) error {
		resp, err := c.cli.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:       c.chatModel,
			Messages:    messages,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("no completion choices returned")
		}
		content = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	err := c.withRetry(ctx, "embedding", func(callCtx context.Context) error {
		resp, err := c.cli.CreateEmbeddings(callCtx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(c.embedModel),
			Input: []string{text},
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return errors.New("no embeddings returned")
		}
		vec = resp.Data[0].Embedding
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}

// withRetry runs fn with a per-attempt timeout and retries transient
// failures up to maxRetries times with exponential backoff. Validation
// errors (4xx other than 429) are not retried.
func (c *OpenAIClient) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
			log.Printf("[llm] %s failed (%v), retry %d/%d after %v", op, lastErr, attempt, c.maxRetries, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return core.ExternalServiceErr(op, ctx.Err())
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := fn(callCtx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isTransient(err) {
			break
		}
	}
	return core.ExternalServiceErr(op, lastErr)
}

func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// ---------------- Mock implementation ----------------

// MockClient answers offline. It keeps the service usable without an API
// key and backs the unit tests.
type MockClient struct{}

func (m *MockClient) Complete(_ context.Context, req Request) (string, error) {
	words := strings.Fields(req.Prompt)
	n := len(words)
	if n > 12 {
		n = 12
	}
	return fmt.Sprintf("Mock title\n%s", strings.Join(words[:n], " ")), nil
}

func (m *MockClient) Embed(_ context.Context, text string) ([]float32, error) {
	// Cheap deterministic vector so the memory store stays exercised.
	vec := make([]float32, 8)
	for i, r := range text {
		vec[i%8] += float32(r%13) / 13
	}
	return vec, nil
}

// Package groq provides a Groq chat-completions client for the itinerary
// assistant. The API is OpenAI-compatible.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wanderplan/wanderplan/internal/assistant"
	"github.com/wanderplan/wanderplan/internal/provider/resilience"
)

const (
	// ProviderName identifies this assistant provider.
	ProviderName = "groq"

	// DefaultBaseURL is the Groq OpenAI-compatible API base URL.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the chat model used for itinerary generation.
	DefaultModel = "llama-3.3-70b-versatile"

	// defaultTemperature balances variety against schema adherence.
	defaultTemperature = 0.7

	// defaultMaxTokens bounds the reply; truncation at this limit is what
	// the parser's recovery path handles.
	defaultMaxTokens = 3000
)

// ErrMissingAPIKey is returned when the client is constructed without a key.
var ErrMissingAPIKey = errors.New("groq api key is required")

// ClientConfig holds configuration for the Groq client.
type ClientConfig struct {
	// APIKey is the Groq API key (required).
	APIKey string

	// BaseURL overrides the API base URL (optional).
	BaseURL string

	// Model overrides the chat model (optional).
	Model string

	// ModelFunc, when set, is consulted on every call and overrides Model
	// when it returns a non-empty name. Used for runtime model switches.
	ModelFunc func() string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Groq chat-completions client.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	modelFunc  func() string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Groq client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		modelFunc:  cfg.ModelFunc,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// effectiveModel resolves the model for one call.
func (c *Client) effectiveModel() string {
	if c.modelFunc != nil {
		if m := c.modelFunc(); m != "" {
			return m
		}
	}
	return c.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Complete sends the assistant request and returns the model's raw reply
// together with the provider's finish reason.
func (c *Client) Complete(ctx context.Context, req assistant.Request) (assistant.Completion, error) {
	payload := chatCompletionRequest{
		Model: c.effectiveModel(),
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserMessage},
		},
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return assistant.Completion{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return assistant.Completion{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return assistant.Completion{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(raw)).
			Msg("groq completion failed")
		return assistant.Completion{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var chatResp chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return assistant.Completion{}, fmt.Errorf("decoding response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return assistant.Completion{}, nil
	}

	return assistant.Completion{
		Content:      chatResp.Choices[0].Message.Content,
		FinishReason: chatResp.Choices[0].FinishReason,
	}, nil
}

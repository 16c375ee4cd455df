package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cacildafilmes/cacilda/internal/domain"
)

const (
	// DefaultBaseURL is the public completion endpoint root.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the chat model used when none is configured.
	DefaultModel = openai.GPT4o

	quotaErrorCode = "insufficient_quota"
	maxErrorBody   = 64 << 10
)

// Config configures a CompletionClient.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// CompletionClient issues streamed chat-completion requests and hands back the
// raw event stream so the caller can parse it incrementally.
type CompletionClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a CompletionClient using defaults.
func NewClient(apiKey string) *CompletionClient {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a CompletionClient with explicit configuration.
// The default HTTP client has no timeout: a stream lives as long as its context.
func NewClientWithConfig(cfg Config) *CompletionClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &CompletionClient{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
	}
}

// Model returns the model requested by Stream.
func (c *CompletionClient) Model() string {
	return c.model
}

// Stream sends the system instruction followed by the whole conversation and
// returns the response body of a successful request. The caller must close it.
func (c *CompletionClient) Stream(ctx context.Context, system string, history []domain.ChatMessage) (io.ReadCloser, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingCompletionKey
	}

	payload, err := json.Marshal(openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: buildMessages(system, history),
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream,
			"Erro ao conectar com a API do OpenAI", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, ClassifyError(resp.StatusCode, body)
	}
	return resp.Body, nil
}

func buildMessages(system string, history []domain.ChatMessage) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return messages
}

// ClassifyError turns a non-success completion response into a domain error.
// Quota exhaustion gets its own code; anything else is a generic upstream failure
// carrying the provider body.
func ClassifyError(statusCode int, body []byte) error {
	detail := compactBody(body)

	if apiErr := decodeAPIError(body); apiErr != nil && isQuotaError(apiErr) {
		return domain.NewQuotaExceededError(statusCode, detail)
	}
	return domain.NewUpstreamError(statusCode, detail)
}

// decodeAPIError reads the provider error envelope. Bodies the go-openai decoder
// rejects, such as one without a message, still yield their code and type.
func decodeAPIError(body []byte) *openai.APIError {
	var errResp openai.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		return errResp.Error
	}

	var loose struct {
		Error *struct {
			Code any    `json:"code"`
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &loose); err != nil || loose.Error == nil {
		return nil
	}
	return &openai.APIError{Code: loose.Error.Code, Type: loose.Error.Type}
}

func isQuotaError(apiErr *openai.APIError) bool {
	if code, ok := apiErr.Code.(string); ok && code == quotaErrorCode {
		return true
	}
	return apiErr.Type == quotaErrorCode
}

func compactBody(body []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err == nil {
		return buf.String()
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return "{}"
}

// DecodeDelta extracts the text fragment of one stream payload. Chunks without
// choices or content yield an empty string.
func DecodeDelta(payload string) (string, error) {
	var chunk openai.ChatCompletionStreamResponse
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return "", err
	}
	if len(chunk.Choices) == 0 {
		return "", nil
	}
	return chunk.Choices[0].Delta.Content, nil
}

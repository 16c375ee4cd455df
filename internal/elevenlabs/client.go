// Package elevenlabs issues signed URLs for browser voice conversations.
package elevenlabs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cacildafilmes/cacilda/internal/domain"
)

const DefaultBaseURL = "https://api.elevenlabs.io/v1"

// Config holds the voice provider credentials.
type Config struct {
	APIKey     string
	AgentID    string
	BaseURL    string
	HTTPClient *http.Client
}

// Client calls the conversational AI endpoints.
type Client struct {
	apiKey     string
	agentID    string
	baseURL    string
	httpClient *http.Client
}

// ProviderError is a non-success answer from the provider. Its status is
// passed on to the caller unchanged.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("Failed to get signed URL: %s, Details: %s", http.StatusText(e.StatusCode), e.Body)
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		apiKey:     cfg.APIKey,
		agentID:    cfg.AgentID,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type signedURLResponse struct {
	SignedURL string `json:"signed_url"`
}

// SignedURL asks the provider for a conversation URL for agentID, falling back
// to the configured agent. origin is forwarded as the Origin header.
func (c *Client) SignedURL(ctx context.Context, agentID, origin string) (string, error) {
	if c.apiKey == "" {
		return "", domain.ErrMissingVoiceConfig
	}
	if agentID == "" {
		agentID = c.agentID
	}
	if agentID == "" {
		return "", domain.ErrMissingVoiceConfig
	}

	endpoint := c.baseURL + "/convai/conversation/get_signed_url?agent_id=" + url.QueryEscape(agentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call voice provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := strings.TrimSpace(string(body))
		if detail == "" {
			detail = "{}"
		}
		return "", &ProviderError{StatusCode: resp.StatusCode, Body: detail}
	}

	var out signedURLResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode signed url response: %w", err)
	}
	if out.SignedURL == "" {
		return "", fmt.Errorf("signed url missing from provider response")
	}
	return out.SignedURL, nil
}

package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cacildafilmes/cacilda/internal/domain"
)

const (
	// DefaultRunPollInterval is how often a pending run is re-read.
	DefaultRunPollInterval = time.Second

	assistantName         = "Cacilda"
	assistantInstructions = "Você é a Cacilda, assistente virtual da Cacilda Filmes, produtora de vídeos corporativos. " +
		"Responda em português, de forma cordial e objetiva, sobre os serviços e o portfólio da produtora."
)

// AssistantAPI is the subset of the hosted assistants API used here.
// *openai.Client satisfies it.
type AssistantAPI interface {
	CreateAssistant(ctx context.Context, request openai.AssistantRequest) (openai.Assistant, error)
	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error)
}

// AssistantClient drives a hosted assistant conversation.
type AssistantClient struct {
	api          AssistantAPI
	model        string
	pollInterval time.Duration
}

// NewAssistantClient creates an AssistantClient backed by the go-openai client.
func NewAssistantClient(cfg Config) *AssistantClient {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		apiCfg.HTTPClient = cfg.HTTPClient
	}
	return NewAssistantClientWithAPI(openai.NewClientWithConfig(apiCfg), cfg.Model, DefaultRunPollInterval)
}

// NewAssistantClientWithAPI creates an AssistantClient over an arbitrary API.
func NewAssistantClientWithAPI(api AssistantAPI, model string, pollInterval time.Duration) *AssistantClient {
	if model == "" {
		model = DefaultModel
	}
	if pollInterval <= 0 {
		pollInterval = DefaultRunPollInterval
	}
	return &AssistantClient{api: api, model: model, pollInterval: pollInterval}
}

// Start creates an assistant and a thread to talk to it on.
func (c *AssistantClient) Start(ctx context.Context) (assistantID, threadID string, err error) {
	name := assistantName
	instructions := assistantInstructions
	assistant, err := c.api.CreateAssistant(ctx, openai.AssistantRequest{
		Model:        c.model,
		Name:         &name,
		Instructions: &instructions,
	})
	if err != nil {
		return "", "", translateError(err)
	}

	thread, err := c.api.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", "", translateError(err)
	}
	return assistant.ID, thread.ID, nil
}

// Ask posts message on the thread, runs the assistant until the run completes
// and returns the text of the assistant messages it produced.
func (c *AssistantClient) Ask(ctx context.Context, assistantID, threadID, message string) ([]string, error) {
	if _, err := c.api.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    string(openai.ThreadMessageRoleUser),
		Content: message,
	}); err != nil {
		return nil, translateError(err)
	}

	run, err := c.api.CreateRun(ctx, threadID, openai.RunRequest{AssistantID: assistantID})
	if err != nil {
		return nil, translateError(err)
	}

	run, err = c.waitForRun(ctx, threadID, run)
	if err != nil {
		return nil, err
	}

	list, err := c.api.ListMessage(ctx, threadID, nil, nil, nil, nil, &run.ID)
	if err != nil {
		return nil, translateError(err)
	}

	texts := make([]string, 0, len(list.Messages))
	for _, msg := range list.Messages {
		if msg.Role != string(openai.ThreadMessageRoleAssistant) || len(msg.Content) == 0 {
			continue
		}
		if first := msg.Content[0]; first.Type == "text" && first.Text != nil && first.Text.Value != "" {
			texts = append(texts, first.Text.Value)
		}
	}
	return texts, nil
}

func (c *AssistantClient) waitForRun(ctx context.Context, threadID string, run openai.Run) (openai.Run, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		switch run.Status {
		case openai.RunStatusCompleted:
			return run, nil
		case openai.RunStatusFailed, openai.RunStatusCancelled, openai.RunStatusExpired,
			openai.RunStatusRequiresAction:
			return run, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream,
				"OpenAI API error",
				fmt.Errorf("run %s ended with status %s", run.ID, run.Status))
		}

		select {
		case <-ctx.Done():
			return run, ctx.Err()
		case <-ticker.C:
		}

		next, err := c.api.RetrieveRun(ctx, threadID, run.ID)
		if err != nil {
			return run, translateError(err)
		}
		run = next
	}
}

func translateError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if isQuotaError(apiErr) {
			return domain.NewQuotaExceededError(apiErr.HTTPStatusCode, apiErr.Message)
		}
		return domain.NewUpstreamError(statusOr(apiErr.HTTPStatusCode), apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return domain.NewUpstreamError(statusOr(reqErr.HTTPStatusCode), reqErr.Error())
	}
	return domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "OpenAI API error", err)
}

func statusOr(code int) int {
	if code == 0 {
		return http.StatusInternalServerError
	}
	return code
}

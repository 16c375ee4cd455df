//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cacildafilmes/cacilda/internal/api/handlers"
	"github.com/cacildafilmes/cacilda/internal/cache"
	"github.com/cacildafilmes/cacilda/internal/config"
	"github.com/cacildafilmes/cacilda/internal/elevenlabs"
	"github.com/cacildafilmes/cacilda/internal/openai"
	"github.com/cacildafilmes/cacilda/internal/repository"
	"github.com/cacildafilmes/cacilda/internal/server"
	"github.com/cacildafilmes/cacilda/internal/service"
	"github.com/cacildafilmes/cacilda/internal/testutil"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T          *testing.T
	Ctx        context.Context
	PostgresC  *testutil.PostgresContainer
	Pool       *pgxpool.Pool
	Server     *httptest.Server
	Upstream   *httptest.Server
	Completion atomic.Int32
	// UpstreamStatus, when non-zero, makes the fake provider fail with it.
	UpstreamStatus atomic.Int32
	HTTPClient     *http.Client
}

const upstreamReply = "data: {\"choices\":[{\"delta\":{\"role\":\"assistant\"}}]}\n\n" +
	"data: {\"choices\":[{\"delta\":{\"content\":\"Somos a \"}}]}\n\n" +
	"data: {\"choices\":[{\"delta\":{\"content\":\"Cacilda Filmes.\"}}]}\n\n" +
	"data: [DONE]\n\n"

// SetupE2EEnv starts Postgres, a fake completion provider and the API server.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC)

	env := &E2ETestEnv{
		T:         t,
		Ctx:       ctx,
		PostgresC: pgC,
		Pool:      pool,
	}

	env.Upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.Completion.Add(1)
		if status := env.UpstreamStatus.Load(); status != 0 {
			w.WriteHeader(int(status))
			_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, part := range []string{upstreamReply[:40], upstreamReply[40:97], upstreamReply[97:]} {
			_, _ = io.WriteString(w, part)
			flusher.Flush()
		}
	}))

	cfg := &config.Config{DatabaseURL: pgC.ConnectionString(), OpenAIAPIKey: "sk-e2e"}
	tables := repository.TablesFor("development")
	knowledgeRepo := repository.NewKnowledgeRepository(pool, tables)
	videoRepo := repository.NewVideoRepository(pool, tables)

	completer := openai.NewClientWithConfig(openai.Config{APIKey: "sk-e2e", BaseURL: env.Upstream.URL})
	answers := cache.NewClientScoped(cache.NewMemoryCache(cache.DefaultTTL))
	chat := service.NewChatService(service.NewKnowledgeBase(knowledgeRepo, videoRepo, nil), completer, answers, service.ChatOptions{}, nil)
	videos := service.NewVideoService(videoRepo, nil)

	router := server.NewRouter(server.RouterConfig{
		AdminAPIKey:      "admin-e2e",
		ChatHandler:      handlers.NewChatHandler(chat, nil),
		VideoHandler:     handlers.NewVideoHandler(videos),
		KnowledgeHandler: handlers.NewKnowledgeHandler(service.NewKnowledgeService(knowledgeRepo, nil)),
		AssistantHandler: handlers.NewAssistantHandler(service.NewAssistantService(nil, nil, nil)),
		VoiceHandler:     handlers.NewVoiceHandler(elevenlabs.NewClient(elevenlabs.Config{}), nil),
		StatusHandler:    handlers.NewStatusHandler(cfg, videos, nil),
	})
	env.Server = httptest.NewServer(router)
	env.HTTPClient = &http.Client{Timeout: 30 * time.Second}

	return env
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.Server != nil {
		e.Server.Close()
	}
	if e.Upstream != nil {
		e.Upstream.Close()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// Do sends a JSON request to the API server.
func (e *E2ETestEnv) Do(method, path string, body interface{}, cookies []*http.Cookie, adminKey string) *http.Response {
	e.T.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			e.T.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(e.Ctx, method, e.Server.URL+path, reader)
	if err != nil {
		e.T.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if adminKey != "" {
		req.Header.Set("Authorization", "Bearer "+adminKey)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		e.T.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

// ReadBody drains and closes resp.Body.
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return string(data)
}

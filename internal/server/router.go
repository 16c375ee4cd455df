package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/api/handlers"
	"github.com/cacildafilmes/cacilda/internal/api/middleware"
)

type RouterConfig struct {
	Logger           *zap.Logger
	AdminAPIKey      string
	ChatLimiter      *middleware.RateLimiter
	ChatHandler      *handlers.ChatHandler
	VideoHandler     *handlers.VideoHandler
	KnowledgeHandler *handlers.KnowledgeHandler
	AssistantHandler *handlers.AssistantHandler
	VoiceHandler     *handlers.VoiceHandler
	StatusHandler    *handlers.StatusHandler

	// TrustProxyHeaders enables chi's RealIP. Without it the rate limiter keys
	// on the TCP peer address.
	TrustProxyHeaders bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	if cfg.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientID)
	r.Use(middleware.AccessLog(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", cfg.StatusHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.ChatLimiter != nil {
				r.Use(cfg.ChatLimiter.Middleware)
			}
			r.Post("/chat", cfg.ChatHandler.Chat)
			r.Post("/openai-assistant", cfg.AssistantHandler.Handle)
		})

		r.Get("/list-videos", cfg.VideoHandler.List)
		r.Get("/check-env", cfg.StatusHandler.CheckEnv)
		r.Get("/test-connection", cfg.StatusHandler.TestConnection)
		r.Get("/generate-signed-url", cfg.VoiceHandler.SignedURL)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.AdminAPIKey))
			r.Post("/upload-video", cfg.VideoHandler.Upload)
			r.Delete("/delete-video", cfg.VideoHandler.Delete)
			r.Post("/update-knowledge-base", cfg.KnowledgeHandler.Update)
		})
	})

	return r
}

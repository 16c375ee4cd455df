package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/api/handlers"
	"github.com/cacildafilmes/cacilda/internal/api/middleware"
	"github.com/cacildafilmes/cacilda/internal/cache"
	"github.com/cacildafilmes/cacilda/internal/config"
	"github.com/cacildafilmes/cacilda/internal/database"
	"github.com/cacildafilmes/cacilda/internal/elevenlabs"
	"github.com/cacildafilmes/cacilda/internal/jobs"
	"github.com/cacildafilmes/cacilda/internal/logging"
	"github.com/cacildafilmes/cacilda/internal/migrations"
	"github.com/cacildafilmes/cacilda/internal/openai"
	"github.com/cacildafilmes/cacilda/internal/repository"
	"github.com/cacildafilmes/cacilda/internal/server"
	"github.com/cacildafilmes/cacilda/internal/service"
	"github.com/cacildafilmes/cacilda/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the Cacilda chat API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides CACILDA_PORT)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(logging.Config{Debug: cfg.Debug, File: cfg.LogFile})
	defer func() { _ = logger.Sync() }()

	sampleRate := 1.0
	if cfg.IsProduction() {
		sampleRate = 0.1
	}
	shutdownTelemetry, err := telemetry.Init(telemetry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		TracesSampleRate: sampleRate,
		Logger:           logger,
	})
	if err != nil {
		logger.Warn("telemetry init failed, continuing without tracing", zap.Error(err))
	} else {
		defer shutdownTelemetry()
	}

	if portFlag, _ := cmd.Flags().GetString("port"); portFlag != "" {
		cfg.Port = portFlag
	}

	tables := repository.TablesFor(cfg.Environment)
	logger.Info("configuration loaded",
		zap.String("environment", cfg.Environment),
		zap.String("knowledge_table", tables.Knowledge),
		zap.String("video_table", tables.Videos),
		zap.Bool("database", cfg.HasDatabase()),
		zap.Bool("completion", cfg.HasOpenAI()),
		zap.Bool("voice", cfg.HasElevenLabs()),
	)

	var (
		knowledgeRepo *repository.KnowledgeRepository
		videoRepo     *repository.VideoRepository
		sessionRepo   *repository.AssistantSessionRepository
	)
	if cfg.HasDatabase() {
		pool, err := database.NewPool(ctx, database.Config{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return err
		}
		defer pool.Close()
		logger.Info("connected to database")

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			if _, err := migrations.Up(cfg.DatabaseURL, logger); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		knowledgeRepo = repository.NewKnowledgeRepository(pool, tables)
		videoRepo = repository.NewVideoRepository(pool, tables)
		sessionRepo = repository.NewAssistantSessionRepository(pool)
	} else {
		logger.Warn("CACILDA_DATABASE_URL is not set; catalog and chat requests will fail")
	}

	answers := cache.NewMemoryCache(cfg.CacheTTL)
	chatLimiter := middleware.NewRateLimiter(cfg.ChatRateLimit, cfg.ChatRateBurst, logger)

	svcs := buildServices(cfg, knowledgeRepo, videoRepo, sessionRepo, answers, logger)

	workers := []*jobs.Worker{
		jobs.NewWorker("cache-janitor", cache.NewJanitor(answers, logger), cfg.CacheSweepInterval, logger),
		jobs.NewWorker("rate-limit-sweeper", chatLimiter, cfg.CacheSweepInterval, logger),
	}
	if sessionRepo != nil {
		reaper := jobs.NewSessionReaper(sessionRepo, cfg.AssistantSessionTTL, logger)
		workers = append(workers, jobs.NewWorker("assistant-session-reaper", reaper, time.Hour, logger))
	}
	for _, w := range workers {
		go w.Start(ctx)
	}

	router := server.NewRouter(server.RouterConfig{
		Logger:            logger,
		AdminAPIKey:       cfg.AdminAPIKey,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		ChatLimiter:       chatLimiter,
		ChatHandler:       handlers.NewChatHandler(svcs.chat, logger),
		VideoHandler:      handlers.NewVideoHandler(svcs.videos),
		KnowledgeHandler:  handlers.NewKnowledgeHandler(svcs.knowledge),
		AssistantHandler:  handlers.NewAssistantHandler(svcs.assistant),
		VoiceHandler:      handlers.NewVoiceHandler(svcs.voice, logger),
		StatusHandler:     handlers.NewStatusHandler(cfg, svcs.videos, logger),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Info("shutting down")

	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}

type services struct {
	chat      *service.ChatService
	videos    *service.VideoService
	knowledge *service.KnowledgeService
	assistant *service.AssistantService
	voice     *elevenlabs.Client
}

// buildServices wires the services for whatever credentials are present. A
// missing collaborator is passed as an untyped nil so the services report a
// configuration error per request.
func buildServices(
	cfg *config.Config,
	knowledgeRepo *repository.KnowledgeRepository,
	videoRepo *repository.VideoRepository,
	sessionRepo *repository.AssistantSessionRepository,
	answers cache.Cache,
	logger *zap.Logger,
) services {
	var (
		fetcher   service.KnowledgeFetcher
		videos    service.VideoRepositoryInterface
		facts     service.KnowledgeRepositoryInterface
		sessions  service.AssistantSessionRepositoryInterface
		completer service.Completer
		backend   service.AssistantBackend
	)
	if knowledgeRepo != nil && videoRepo != nil {
		fetcher = service.NewKnowledgeBase(knowledgeRepo, videoRepo, logger)
		videos = videoRepo
		facts = knowledgeRepo
	}
	if sessionRepo != nil {
		sessions = sessionRepo
	}
	if cfg.HasOpenAI() {
		openaiCfg := openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}
		completer = openai.NewClientWithConfig(openaiCfg)
		backend = openai.NewAssistantClient(openaiCfg)
	}

	return services{
		chat: service.NewChatService(fetcher, completer, cache.NewClientScoped(answers),
			service.ChatOptions{DegradeOnEmptyKnowledge: cfg.DegradeOnEmptyKnowledge}, logger),
		videos:    service.NewVideoService(videos, logger),
		knowledge: service.NewKnowledgeService(facts, logger),
		assistant: service.NewAssistantService(backend, sessions, logger),
		voice: elevenlabs.NewClient(elevenlabs.Config{
			APIKey:  cfg.ElevenLabsAPIKey,
			AgentID: cfg.ElevenLabsAgentID,
			BaseURL: cfg.ElevenLabsBaseURL,
		}),
	}
}

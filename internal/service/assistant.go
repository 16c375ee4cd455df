package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/domain"
	"github.com/cacildafilmes/cacilda/internal/logging"
	"github.com/cacildafilmes/cacilda/internal/telemetry"
)

// AssistantBackend talks to the hosted assistants API.
type AssistantBackend interface {
	Start(ctx context.Context) (assistantID, threadID string, err error)
	Ask(ctx context.Context, assistantID, threadID, message string) ([]string, error)
}

// AssistantSessionRepositoryInterface persists assistant sessions
type AssistantSessionRepositoryInterface interface {
	Create(ctx context.Context, s *domain.AssistantSession) error
	GetByID(ctx context.Context, id string) (*domain.AssistantSession, error)
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// AssistantService keeps one assistant and thread per visitor session.
type AssistantService struct {
	backend  AssistantBackend
	sessions AssistantSessionRepositoryInterface
	uuidGen  UUIDGenerator
	now      func() time.Time
	logger   *zap.Logger
}

// NewAssistantService creates a new AssistantService instance
func NewAssistantService(backend AssistantBackend, sessions AssistantSessionRepositoryInterface, logger *zap.Logger) *AssistantService {
	return &AssistantService{
		backend:  backend,
		sessions: sessions,
		uuidGen:  &DefaultUUIDGenerator{},
		now:      time.Now,
		logger:   logging.OrNop(logger),
	}
}

func (s *AssistantService) ready() error {
	if s.backend == nil {
		return domain.ErrMissingCompletionKey
	}
	if s.sessions == nil {
		return domain.ErrMissingDatabase
	}
	return nil
}

// Initialize creates an assistant with its thread and records them under a new
// session id.
func (s *AssistantService) Initialize(ctx context.Context) (*domain.AssistantSession, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "AssistantService.Initialize", telemetry.SpanAttributes{
		Operation: "initialize",
	})
	defer span.End()

	assistantID, threadID, err := s.backend.Start(ctx)
	if err != nil {
		s.logger.Error("failed to initialize assistant", zap.Error(err))
		span.SetError(err)
		return nil, err
	}

	session := &domain.AssistantSession{
		ID:          s.uuidGen.NewString(),
		AssistantID: assistantID,
		ThreadID:    threadID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error("failed to persist assistant session", zap.Error(err))
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "Failed to initialize assistant", err)
	}

	s.logger.Info("assistant session started",
		zap.String("session_id", session.ID),
		zap.String("assistant_id", assistantID),
	)
	return session, nil
}

// Message sends a visitor message on the session's thread and returns the
// assistant's replies.
func (s *AssistantService) Message(ctx context.Context, sessionID, message string) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, domain.ErrAssistantNotReady
	}
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrMissingRequiredField
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrAssistantSessionNotFound) {
			return nil, domain.ErrAssistantNotReady
		}
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "AssistantService.Message", telemetry.SpanAttributes{
		Operation: "message",
	})
	defer span.End()

	replies, err := s.backend.Ask(ctx, session.AssistantID, session.ThreadID, message)
	if err != nil {
		s.logger.Error("assistant run failed", zap.String("session_id", sessionID), zap.Error(err))
		span.SetError(err)
		return nil, err
	}
	return replies, nil
}

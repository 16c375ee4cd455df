package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/domain"
	"github.com/cacildafilmes/cacilda/internal/logging"
)

// KnowledgeRepositoryInterface defines the repository interface for knowledge persistence
type KnowledgeRepositoryInterface interface {
	List(ctx context.Context) ([]domain.KnowledgeItem, error)
	Create(ctx context.Context, t domain.KnowledgeType, content string) (*domain.KnowledgeItem, error)
	Table() string
}

// KnowledgeService handles the free-form company and portfolio facts
type KnowledgeService struct {
	repo   KnowledgeRepositoryInterface
	logger *zap.Logger
}

// NewKnowledgeService creates a new KnowledgeService instance
func NewKnowledgeService(repo KnowledgeRepositoryInterface, logger *zap.Logger) *KnowledgeService {
	return &KnowledgeService{repo: repo, logger: logging.OrNop(logger)}
}

// Add stores a new fact
func (s *KnowledgeService) Add(ctx context.Context, t domain.KnowledgeType, content string) (*domain.KnowledgeItem, error) {
	if s.repo == nil {
		return nil, domain.ErrMissingDatabase
	}
	content = strings.TrimSpace(content)
	if err := domain.ValidateKnowledgeInput(t, content); err != nil {
		return nil, err
	}

	item, err := s.repo.Create(ctx, t, content)
	if err != nil {
		s.logger.Error("failed to insert knowledge", zap.String("type", string(t)), zap.Error(err))
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "Erro ao atualizar a base de conhecimento", err)
	}

	s.logger.Info("knowledge added", zap.Int64("id", item.ID), zap.String("type", string(t)))
	return item, nil
}

// List returns every fact ordered by id
func (s *KnowledgeService) List(ctx context.Context) ([]domain.KnowledgeItem, error) {
	if s.repo == nil {
		return nil, domain.ErrMissingDatabase
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.NewDataFetchError(s.repo.Table(), err)
	}
	return items, nil
}

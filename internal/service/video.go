package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/domain"
	"github.com/cacildafilmes/cacilda/internal/logging"
	"github.com/cacildafilmes/cacilda/internal/telemetry"
)

// VideoRepositoryInterface defines the repository interface for the catalog
type VideoRepositoryInterface interface {
	List(ctx context.Context) ([]*domain.Video, error)
	ListSummaries(ctx context.Context) ([]domain.VideoSummary, error)
	Create(ctx context.Context, v *domain.Video) error
	GetByID(ctx context.Context, id int64) (*domain.Video, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	Table() string
}

// VideoService handles the portfolio catalog
type VideoService struct {
	repo   VideoRepositoryInterface
	logger *zap.Logger
}

// NewVideoService creates a new VideoService instance
func NewVideoService(repo VideoRepositoryInterface, logger *zap.Logger) *VideoService {
	return &VideoService{repo: repo, logger: logging.OrNop(logger)}
}

// UploadInput is a new catalog entry as sent by the admin form
type UploadInput struct {
	Client      string
	Title       string
	Production  string
	Creation    string
	Category    string
	Description string
	VimeoLink   string
}

// List returns the id, title and Vimeo id of every video
func (s *VideoService) List(ctx context.Context) ([]domain.VideoSummary, error) {
	if s.repo == nil {
		return nil, domain.ErrMissingDatabase
	}
	summaries, err := s.repo.ListSummaries(ctx)
	if err != nil {
		return nil, domain.NewDataFetchError(s.repo.Table(), err)
	}
	return summaries, nil
}

// ListAll returns the full catalog
func (s *VideoService) ListAll(ctx context.Context) ([]*domain.Video, error) {
	if s.repo == nil {
		return nil, domain.ErrMissingDatabase
	}
	videos, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.NewDataFetchError(s.repo.Table(), err)
	}
	return videos, nil
}

// Upload adds a video to the catalog
func (s *VideoService) Upload(ctx context.Context, input UploadInput) (*domain.Video, error) {
	if s.repo == nil {
		return nil, domain.ErrMissingDatabase
	}

	ctx, span := telemetry.StartSpan(ctx, "VideoService.Upload", telemetry.SpanAttributes{
		Table:     s.repo.Table(),
		Operation: "create",
	})
	defer span.End()

	vimeoID, err := domain.VimeoIDFromLink(input.VimeoLink)
	if err != nil {
		return nil, err
	}

	video := &domain.Video{
		VimeoID:     vimeoID,
		Title:       strings.TrimSpace(input.Title),
		Client:      strings.TrimSpace(input.Client),
		Production:  strings.TrimSpace(input.Production),
		Creation:    strings.TrimSpace(input.Creation),
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
	}
	if err := domain.ValidateVideo(video); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, video); err != nil {
		s.logger.Error("failed to insert video", zap.String("vimeo_id", vimeoID), zap.Error(err))
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "Erro ao salvar o vídeo", err)
	}

	s.logger.Info("video added", zap.Int64("id", video.ID), zap.String("vimeo_id", vimeoID))
	return video, nil
}

// Delete removes a video from the catalog
func (s *VideoService) Delete(ctx context.Context, id int64) error {
	if s.repo == nil {
		return domain.ErrMissingDatabase
	}
	if id <= 0 {
		return domain.ErrMissingVideoID
	}

	ctx, span := telemetry.StartSpan(ctx, "VideoService.Delete", telemetry.SpanAttributes{
		Table:     s.repo.Table(),
		VideoID:   strconv.FormatInt(id, 10),
		Operation: "delete",
	})
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrVideoNotFound) {
			return err
		}
		s.logger.Error("failed to delete video", zap.Int64("id", id), zap.Error(err))
		span.SetError(err)
		return domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "Erro ao deletar o vídeo", err)
	}

	s.logger.Info("video deleted", zap.Int64("id", id))
	return nil
}

// Count reports the catalog size; used as a connectivity probe
func (s *VideoService) Count(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, domain.ErrMissingDatabase
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, domain.NewDataFetchError(s.repo.Table(), err)
	}
	return n, nil
}

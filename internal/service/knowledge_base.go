package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/domain"
	"github.com/cacildafilmes/cacilda/internal/logging"
	"github.com/cacildafilmes/cacilda/internal/telemetry"
)

// KnowledgeLister reads the free-form knowledge table.
type KnowledgeLister interface {
	List(ctx context.Context) ([]domain.KnowledgeItem, error)
	Table() string
}

// VideoLister reads the video catalog.
type VideoLister interface {
	List(ctx context.Context) ([]*domain.Video, error)
	Table() string
}

// KnowledgeBase assembles the rows that ground chat answers.
type KnowledgeBase struct {
	knowledge KnowledgeLister
	videos    VideoLister
	logger    *zap.Logger
}

func NewKnowledgeBase(knowledge KnowledgeLister, videos VideoLister, logger *zap.Logger) *KnowledgeBase {
	return &KnowledgeBase{knowledge: knowledge, videos: videos, logger: logging.OrNop(logger)}
}

// Fetch returns the knowledge rows followed by the catalog, each ordered by id.
// The two reads run one after the other.
func (kb *KnowledgeBase) Fetch(ctx context.Context) ([]domain.KnowledgeItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeBase.Fetch", telemetry.SpanAttributes{
		Operation: "fetch",
	})
	defer span.End()

	facts, err := kb.knowledge.List(ctx)
	if err != nil {
		kb.logger.Error("failed to read knowledge table", zap.String("table", kb.knowledge.Table()), zap.Error(err))
		span.SetError(err)
		return nil, domain.NewDataFetchError(kb.knowledge.Table(), err)
	}

	videos, err := kb.videos.List(ctx)
	if err != nil {
		kb.logger.Error("failed to read video table", zap.String("table", kb.videos.Table()), zap.Error(err))
		span.SetError(err)
		return nil, domain.NewDataFetchError(kb.videos.Table(), err)
	}

	items := make([]domain.KnowledgeItem, 0, len(facts)+len(videos))
	items = append(items, facts...)
	for _, v := range videos {
		items = append(items, domain.KnowledgeFromVideo(v))
	}

	kb.logger.Debug("knowledge base loaded",
		zap.String("knowledge_table", kb.knowledge.Table()),
		zap.String("video_table", kb.videos.Table()),
		zap.Int("facts", len(facts)),
		zap.Int("videos", len(videos)),
	)
	return items, nil
}

package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/cache"
	"github.com/cacildafilmes/cacilda/internal/domain"
	"github.com/cacildafilmes/cacilda/internal/logging"
	"github.com/cacildafilmes/cacilda/internal/prompt"
	"github.com/cacildafilmes/cacilda/internal/relay"
	"github.com/cacildafilmes/cacilda/internal/telemetry"
)

// KnowledgeFetcher loads the grounding rows for one chat turn.
type KnowledgeFetcher interface {
	Fetch(ctx context.Context) ([]domain.KnowledgeItem, error)
}

// Completer opens a streamed completion.
type Completer interface {
	Stream(ctx context.Context, system string, history []domain.ChatMessage) (io.ReadCloser, error)
}

// AnswerSource tells where an answer came from.
type AnswerSource string

const (
	AnswerFromCache      AnswerSource = "cache"
	AnswerFromCategory   AnswerSource = "category"
	AnswerFromCompletion AnswerSource = "completion"
)

// Answer is the reply to a chat turn. Cached and category answers are complete
// in Text; completion answers still have to be relayed.
type Answer struct {
	Source    AnswerSource
	Text      string
	utterance string
	body      io.ReadCloser
}

// Streamed reports whether the answer still has to be read from the provider.
func (a *Answer) Streamed() bool {
	return a.body != nil
}

// Close releases the provider stream of an answer that will not be delivered.
func (a *Answer) Close() error {
	if a.body == nil {
		return nil
	}
	return a.body.Close()
}

// ChatOptions tunes ChatService.
type ChatOptions struct {
	// DegradeOnEmptyKnowledge answers without grounding instead of failing when
	// both knowledge tables are empty.
	DegradeOnEmptyKnowledge bool
}

// ChatService runs the chat pipeline: cache, knowledge, category shortcut,
// prompt and streamed completion.
type ChatService struct {
	knowledge KnowledgeFetcher
	completer Completer
	cache     cache.Cache
	relay     *relay.Relay
	opts      ChatOptions
	logger    *zap.Logger
}

// NewChatService creates a ChatService. A nil completer or knowledge fetcher
// means the corresponding credentials are missing; every turn then fails with
// a configuration error.
func NewChatService(
	knowledge KnowledgeFetcher,
	completer Completer,
	answers cache.Cache,
	opts ChatOptions,
	logger *zap.Logger,
) *ChatService {
	if answers == nil {
		answers = cache.Noop{}
	}
	logger = logging.OrNop(logger)
	return &ChatService{
		knowledge: knowledge,
		completer: completer,
		cache:     answers,
		relay:     relay.New(logger),
		opts:      opts,
		logger:    logger,
	}
}

// Answer resolves everything that can fail before the first byte is sent.
func (s *ChatService) Answer(ctx context.Context, messages []domain.ChatMessage) (*Answer, error) {
	if s.completer == nil {
		s.logger.Error("completion API key is not configured")
		return nil, domain.ErrMissingCompletionKey
	}
	if s.knowledge == nil {
		s.logger.Error("database is not configured")
		return nil, domain.ErrMissingDatabase
	}
	if err := domain.ValidateConversation(messages); err != nil {
		return nil, err
	}

	utterance, _ := domain.LastUserUtterance(messages)
	key := cache.Key(utterance)

	if cached, ok := s.cache.Lookup(ctx, key); ok && cached != "" {
		s.logger.Debug("answer served from cache")
		return &Answer{Source: AnswerFromCache, Text: cached}, nil
	}

	items, err := s.knowledge.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		if !s.opts.DegradeOnEmptyKnowledge {
			s.logger.Warn("knowledge base is empty")
			return nil, domain.ErrEmptyKnowledge
		}
		s.logger.Warn("knowledge base is empty, answering without grounding")
	}

	if category, ok := ExtractCategory(strings.ToLower(utterance)); ok {
		if videos := FilterVideosByCategory(items, category); len(videos) > 0 {
			s.logger.Debug("answer served from category listing",
				zap.String("category", category), zap.Int("videos", len(videos)))
			return &Answer{Source: AnswerFromCategory, Text: FormatCategoryListing(category, videos)}, nil
		}
	}

	system, err := prompt.BuildSystemPrompt(prompt.FormatKnowledge(items))
	if err != nil {
		return nil, err
	}

	clientID, _ := cache.ClientIDFromContext(ctx)
	ctx, span := telemetry.StartSpan(ctx, "ChatService.Completion", telemetry.SpanAttributes{
		ClientID:  clientID,
		Operation: "completion",
	})
	defer span.End()

	body, err := s.completer.Stream(ctx, system, messages)
	if err != nil {
		s.logger.Error("completion request failed",
			zap.String("code", domain.CodeOf(err)), zap.Error(err))
		span.SetError(err)
		return nil, err
	}

	return &Answer{Source: AnswerFromCompletion, utterance: utterance, body: body}, nil
}

// Deliver writes the answer to w. A streamed answer is relayed delta by delta
// and, once the provider finished normally, stored in the cache.
func (s *ChatService) Deliver(ctx context.Context, a *Answer, w io.Writer) error {
	if !a.Streamed() {
		_, err := io.WriteString(w, a.Text)
		return err
	}
	defer a.Close()

	ctx, span := telemetry.StartSpan(ctx, "ChatService.Relay", telemetry.SpanAttributes{
		Operation: "relay",
	})
	defer span.End()

	res, err := s.relay.Run(ctx, a.body, w)
	a.Text = res.Text
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Info("visitor left before the answer finished", zap.Int("bytes", len(res.Text)))
		} else {
			s.logger.Error("answer relay failed", zap.Int("bytes", len(res.Text)), zap.Error(err))
			span.SetError(err)
		}
		return err
	}

	if res.Completed && res.Text != "" {
		s.cache.Store(ctx, cache.Key(a.utterance), res.Text)
	}
	return nil
}

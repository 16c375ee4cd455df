package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cacildafilmes/cacilda/internal/cache"
	"github.com/cacildafilmes/cacilda/internal/domain"
)

// MockKnowledgeFetcher is a mock implementation of KnowledgeFetcher
type MockKnowledgeFetcher struct {
	mock.Mock
}

func (m *MockKnowledgeFetcher) Fetch(ctx context.Context) ([]domain.KnowledgeItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.KnowledgeItem), args.Error(1)
}

// MockCompleter is a mock implementation of Completer
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Stream(ctx context.Context, system string, history []domain.ChatMessage) (io.ReadCloser, error) {
	args := m.Called(ctx, system, history)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func sseBody(deltas ...string) io.ReadCloser {
	var b strings.Builder
	for _, d := range deltas {
		b.WriteString(`data: {"choices":[{"delta":{"content":"` + d + `"}}]}` + "\n\n")
	}
	b.WriteString("data: [DONE]\n\n")
	return io.NopCloser(strings.NewReader(b.String()))
}

func conversation(last string) []domain.ChatMessage {
	return []domain.ChatMessage{
		{ID: "1", Role: domain.ChatRoleUser, Content: "Olá"},
		{ID: "2", Role: domain.ChatRoleAssistant, Content: "Oi! Como posso ajudar?"},
		{ID: "3", Role: domain.ChatRoleUser, Content: last},
	}
}

func groundedKnowledge() []domain.KnowledgeItem {
	return []domain.KnowledgeItem{
		{ID: 1, Type: domain.KnowledgeTypeCompanyInfo, Content: "A Cacilda Filmes produz vídeos corporativos."},
		{ID: 1, Type: domain.KnowledgeTypeVideo, Title: "Curso de Vendas", Category: "videoaulas", VimeoID: "111"},
		{ID: 2, Type: domain.KnowledgeTypeVideo, Title: "Bastidores", Category: "makingof", VimeoID: "222"},
	}
}

func newTestChatService(kb KnowledgeFetcher, completer Completer, c cache.Cache, opts ChatOptions) *ChatService {
	return NewChatService(kb, completer, c, opts, nil)
}

func clientCtx() context.Context {
	return cache.WithClientID(context.Background(), "client-1")
}

func TestChatService_StreamsCompletionAndCaches(t *testing.T) {
	kb := new(MockKnowledgeFetcher)
	completer := new(MockCompleter)
	answers := cache.NewClientScoped(cache.NewMemoryCache(time.Hour))
	svc := newTestChatService(kb, completer, answers, ChatOptions{})
	ctx := clientCtx()
	messages := conversation("Quem são vocês?")

	kb.On("Fetch", ctx).Return(groundedKnowledge(), nil)
	completer.On("Stream", mock.Anything, mock.MatchedBy(func(system string) bool {
		return strings.Contains(system, "A Cacilda Filmes produz vídeos corporativos.") &&
			strings.Contains(system, "[portfolio=111]")
	}), messages).Return(sseBody("Somos ", "a Cacilda."), nil)

	answer, err := svc.Answer(ctx, messages)
	require.NoError(t, err)
	assert.Equal(t, AnswerFromCompletion, answer.Source)
	assert.True(t, answer.Streamed())

	var out bytes.Buffer
	require.NoError(t, svc.Deliver(ctx, answer, &out))
	assert.Equal(t, "Somos a Cacilda.", out.String())

	cached, ok := answers.Lookup(ctx, cache.Key("Quem são vocês?"))
	require.True(t, ok)
	assert.Equal(t, "Somos a Cacilda.", cached)

	kb.AssertExpectations(t)
	completer.AssertExpectations(t)
}

func TestChatService_ServesFromCache(t *testing.T) {
	kb := new(MockKnowledgeFetcher)
	completer := new(MockCompleter)
	answers := cache.NewClientScoped(cache.NewMemoryCache(time.Hour))
	svc := newTestChatService(kb, completer, answers, ChatOptions{})
	ctx := clientCtx()

	answers.Store(ctx, cache.Key("Quem são vocês?"), "resposta guardada")

	answer, err := svc.Answer(ctx, conversation("Quem são vocês?"))
	require.NoError(t, err)
	assert.Equal(t, AnswerFromCache, answer.Source)
	assert.False(t, answer.Streamed())

	var out bytes.Buffer
	require.NoError(t, svc.Deliver(ctx, answer, &out))
	assert.Equal(t, "resposta guardada", out.String())

	kb.AssertNotCalled(t, "Fetch", mock.Anything)
	completer.AssertNotCalled(t, "Stream", mock.Anything, mock.Anything, mock.Anything)
}

func TestChatService_CategoryShortcutSkipsCompletion(t *testing.T) {
	kb := new(MockKnowledgeFetcher)
	completer := new(MockCompleter)
	svc := newTestChatService(kb, completer, nil, ChatOptions{})
	ctx := context.Background()

	kb.On("Fetch", ctx).Return(groundedKnowledge(), nil)

	answer, err := svc.Answer(ctx, conversation("Quero ver #VideoAulas"))
	require.NoError(t, err)
	assert.Equal(t, AnswerFromCategory, answer.Source)
	assert.Equal(t, "Aqui estão os vídeos da categoria videoaulas:\n\n- Curso de Vendas [portfolio=111]", answer.Text)

	completer.AssertNotCalled(t, "Stream", mock.Anything, mock.Anything, mock.Anything)
}

func TestChatService_UnknownCategoryFallsThrough(t *testing.T) {
	kb := new(MockKnowledgeFetcher)
	completer := new(MockCompleter)
	svc := newTestChatService(kb, completer, nil, ChatOptions{})
	ctx := context.Background()

	kb.On("Fetch", ctx).Return(groundedKnowledge(), nil)
	completer.On("Stream", mock.Anything, mock.Anything, mock.Anything).Return(sseBody("ok"), nil)

	answer, err := svc.Answer(ctx, conversation("#varejo"))
	require.NoError(t, err)
	assert.Equal(t, AnswerFromCompletion, answer.Source)
	require.NoError(t, answer.Close())
}

func TestChatService_MissingCompletionKey(t *testing.T) {
	kb := new(MockKnowledgeFetcher)
	svc := newTestChatService(kb, nil, nil, ChatOptions{})

	_, err := svc.Answer(context.Background(), conversation("oi"))

	assert.ErrorIs(t, err, domain.ErrMissingCompletionKey)
	kb.AssertNotCalled(t, "Fetch", mock.Anything)
}

func TestChatService_MissingDatabase(t *testing.T) {
	svc := newTestChatService(nil, new(MockCompleter), nil, ChatOptions{})

	_, err := svc.Answer(context.Background(), conversation("oi"))

	assert.Equal(t, domain.ErrCodeConfiguration, domain.CodeOf(err))
}

func TestChatService_EmptyConversation(t *testing.T) {
	svc := newTestChatService(new(MockKnowledgeFetcher), new(MockCompleter), nil, ChatOptions{})

	_, err := svc.Answer(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrEmptyConversation)
}

func TestChatService_EmptyKnowledgeFails(t *testing.T) {
	kb := new(MockKnowledgeFetcher)
	completer := new(MockCompleter)
	svc := newTestChatService(kb, completer, nil, ChatOptions{})

	kb.On("Fetch", mock.Anything).Return([]domain.KnowledgeItem{}, nil)

	_, err := svc.Answer(context.Background(), conversation("oi"))

	assert.ErrorIs(t, err, domain.ErrEmptyKnowledge)
	completer.AssertNotCalled(t, "Stream", mock.Anything, mock.Anything, mock.Anything)
}

func TestChatService_EmptyKnowledgeDegrades(t *testing.T) {
	kb := new(MockKnowledgeFetcher)
	completer := new(MockCompleter)
	svc := newTestChatService(kb, completer, nil, ChatOptions{DegradeOnEmptyKnowledge: true})

	kb.On("Fetch", mock.Anything).Return([]domain.KnowledgeItem{}, nil)
	completer.On("Stream", mock.Anything, mock.Anything, mock.Anything).Return(sseBody("sem base"), nil)

	answer, err := svc.Answer(context.Background(), conversation("oi"))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, svc.Deliver(context.Background(), answer, &out))
	assert.Equal(t, "sem base", out.String())
}

func TestChatService_DataFetchError(t *testing.T) {
	kb := new(MockKnowledgeFetcher)
	svc := newTestChatService(kb, new(MockCompleter), nil, ChatOptions{})

	kb.On("Fetch", mock.Anything).Return(nil, domain.NewDataFetchError("videos", errors.New("timeout")))

	_, err := svc.Answer(context.Background(), conversation("oi"))

	assert.Equal(t, domain.ErrCodeDataFetch, domain.CodeOf(err))
}

func TestChatService_QuotaExceeded(t *testing.T) {
	kb := new(MockKnowledgeFetcher)
	completer := new(MockCompleter)
	svc := newTestChatService(kb, completer, nil, ChatOptions{})

	kb.On("Fetch", mock.Anything).Return(groundedKnowledge(), nil)
	completer.On("Stream", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.NewQuotaExceededError(429, `{"error":{"code":"insufficient_quota"}}`))

	_, err := svc.Answer(context.Background(), conversation("oi"))

	assert.Equal(t, domain.ErrCodeQuotaExceeded, domain.CodeOf(err))
}

func TestChatService_InterruptedRelayIsNotCached(t *testing.T) {
	kb := new(MockKnowledgeFetcher)
	completer := new(MockCompleter)
	answers := cache.NewClientScoped(cache.NewMemoryCache(time.Hour))
	svc := newTestChatService(kb, completer, answers, ChatOptions{})
	ctx, cancel := context.WithCancel(clientCtx())

	kb.On("Fetch", mock.Anything).Return(groundedKnowledge(), nil)
	completer.On("Stream", mock.Anything, mock.Anything, mock.Anything).Return(sseBody("parcial"), nil)

	answer, err := svc.Answer(ctx, conversation("oi"))
	require.NoError(t, err)

	cancel()
	err = svc.Deliver(ctx, answer, io.Discard)

	assert.ErrorIs(t, err, context.Canceled)
	_, ok := answers.Lookup(clientCtx(), cache.Key("oi"))
	assert.False(t, ok)
}

func TestChatService_InvalidRole(t *testing.T) {
	svc := newTestChatService(new(MockKnowledgeFetcher), new(MockCompleter), nil, ChatOptions{})

	_, err := svc.Answer(context.Background(), []domain.ChatMessage{{Role: domain.ChatRoleSystem, Content: "x"}})

	assert.ErrorIs(t, err, domain.ErrInvalidMessageRole)
}

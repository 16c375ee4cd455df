package handlers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/cacildafilmes/cacilda/internal/domain"
	"github.com/cacildafilmes/cacilda/internal/service"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Answer(ctx context.Context, messages []domain.ChatMessage) (*service.Answer, error) {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Answer), args.Error(1)
}

func (m *MockChatService) Deliver(ctx context.Context, a *service.Answer, w io.Writer) error {
	args := m.Called(ctx, a, w)
	return args.Error(0)
}

type MockVideoService struct {
	mock.Mock
}

func (m *MockVideoService) List(ctx context.Context) ([]domain.VideoSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VideoSummary), args.Error(1)
}

func (m *MockVideoService) Upload(ctx context.Context, input service.UploadInput) (*domain.Video, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Video), args.Error(1)
}

func (m *MockVideoService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockKnowledgeService struct {
	mock.Mock
}

func (m *MockKnowledgeService) Add(ctx context.Context, t domain.KnowledgeType, content string) (*domain.KnowledgeItem, error) {
	args := m.Called(ctx, t, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeItem), args.Error(1)
}

type MockAssistantService struct {
	mock.Mock
}

func (m *MockAssistantService) Initialize(ctx context.Context) (*domain.AssistantSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssistantSession), args.Error(1)
}

func (m *MockAssistantService) Message(ctx context.Context, sessionID, message string) ([]string, error) {
	args := m.Called(ctx, sessionID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockSignedURLIssuer struct {
	mock.Mock
}

func (m *MockSignedURLIssuer) SignedURL(ctx context.Context, agentID, origin string) (string, error) {
	args := m.Called(ctx, agentID, origin)
	return args.String(0), args.Error(1)
}

type MockEnvChecker struct {
	vars map[string]string
}

func (m MockEnvChecker) CheckEnv() map[string]string {
	return m.vars
}

func (m MockEnvChecker) EnvironmentReady() bool {
	for _, v := range m.vars {
		if v != "Set" {
			return false
		}
	}
	return true
}

type MockConnectionProber struct {
	mock.Mock
}

func (m *MockConnectionProber) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

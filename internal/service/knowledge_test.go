package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cacildafilmes/cacilda/internal/domain"
)

func TestKnowledgeService_Add(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	svc := NewKnowledgeService(repo, nil)

	repo.On("Create", mock.Anything, domain.KnowledgeTypeCompanyInfo, "Fundada em 2004.").
		Return(&domain.KnowledgeItem{ID: 3, Type: domain.KnowledgeTypeCompanyInfo, Content: "Fundada em 2004."}, nil)

	item, err := svc.Add(context.Background(), domain.KnowledgeTypeCompanyInfo, "  Fundada em 2004.\n")

	require.NoError(t, err)
	assert.Equal(t, int64(3), item.ID)
	repo.AssertExpectations(t)
}

func TestKnowledgeService_Add_Validation(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	svc := NewKnowledgeService(repo, nil)

	_, err := svc.Add(context.Background(), "", "conteúdo")
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	_, err = svc.Add(context.Background(), domain.KnowledgeTypeCompanyInfo, "   ")
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	_, err = svc.Add(context.Background(), "faq", "conteúdo")
	assert.ErrorIs(t, err, domain.ErrInvalidKnowledgeType)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestKnowledgeService_Add_RepositoryError(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	svc := NewKnowledgeService(repo, nil)

	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := svc.Add(context.Background(), domain.KnowledgeTypePortfolioInfo, "x")
	assert.Equal(t, domain.ErrCodeInternalError, domain.CodeOf(err))
}

func TestKnowledgeService_List(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	svc := NewKnowledgeService(repo, nil)

	repo.On("List", mock.Anything).Return(nil, errors.New("boom"))

	_, err := svc.List(context.Background())
	assert.Equal(t, domain.ErrCodeDataFetch, domain.CodeOf(err))

	_, err = NewKnowledgeService(nil, nil).List(context.Background())
	assert.ErrorIs(t, err, domain.ErrMissingDatabase)
}

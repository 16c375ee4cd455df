package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cacildafilmes/cacilda/internal/domain"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "value", result["key"])
}

func TestJSON_NilData(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadRequest, "invalid input")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "invalid input", result.Error)
}

func TestResult(t *testing.T) {
	w := httptest.NewRecorder()
	Result(w, http.StatusOK, "Vídeo deletado com sucesso")
	assert.JSONEq(t, `{"success":true,"message":"Vídeo deletado com sucesso"}`, w.Body.String())

	w = httptest.NewRecorder()
	Result(w, http.StatusNotFound, "Vídeo não encontrado")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Vídeo não encontrado"}`, w.Body.String())
}

func TestDomainErrorToHTTP(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation error", domain.ErrEmptyConversation, http.StatusBadRequest},
		{"not found error", domain.ErrVideoNotFound, http.StatusNotFound},
		{"unauthorized error", domain.ErrInvalidAdminKey, http.StatusUnauthorized},
		{"configuration error", domain.ErrMissingCompletionKey, http.StatusInternalServerError},
		{"data fetch error", domain.NewDataFetchError("videos", errors.New("down")), http.StatusInternalServerError},
		{"empty knowledge", domain.ErrEmptyKnowledge, http.StatusInternalServerError},
		{"upstream error", domain.NewUpstreamError(502, "{}"), http.StatusInternalServerError},
		{"quota exceeded", domain.NewQuotaExceededError(429, "{}"), http.StatusServiceUnavailable},
		{"wrapped quota exceeded", fmt.Errorf("stream: %w", domain.NewQuotaExceededError(429, "{}")), http.StatusServiceUnavailable},
		{"unknown domain error", domain.NewDomainError("UNKNOWN", "unknown"), http.StatusInternalServerError},
		{"non-domain error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DomainErrorToHTTP(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestHandleError_QuotaMessage(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, domain.NewQuotaExceededError(429, `{"error":{"code":"insufficient_quota"}}`))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var result ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Contains(t, result.Error, "Limite de uso")
}

func TestHandleError_HidesCause(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, domain.NewDataFetchError("knowledge_base", errors.New("password authentication failed")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Contains(t, w.Body.String(), "knowledge_base")
}

func TestHandleError_NonDomain(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Ocorreu um erro desconhecido"}`, w.Body.String())
}

func TestHandleResultError(t *testing.T) {
	w := httptest.NewRecorder()

	HandleResultError(w, domain.ErrMissingVideoID)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"ID do vídeo é obrigatório"}`, w.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Type string `json:"type"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":"company_info"}`))
	require.NoError(t, DecodeJSON(r, &body))
	assert.Equal(t, "company_info", body.Type)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":`))
	assert.ErrorIs(t, DecodeJSON(r, &body), domain.ErrInvalidBody)
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	var body map[string]string
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":"`+strings.Repeat("a", 64)+`"}`))
	r.Body = http.MaxBytesReader(w, r.Body, 16)

	err := DecodeJSON(r, &body)

	assert.ErrorIs(t, err, domain.ErrBodyTooLarge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, DomainErrorToHTTP(err))
}

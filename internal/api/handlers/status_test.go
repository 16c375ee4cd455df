package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStatusHandler_CheckEnv(t *testing.T) {
	env := MockEnvChecker{vars: map[string]string{
		"CACILDA_DATABASE_URL":   "Set",
		"CACILDA_OPENAI_API_KEY": "Not set",
	}}
	handler := NewStatusHandler(env, new(MockConnectionProber), nil)

	w := httptest.NewRecorder()
	handler.CheckEnv(w, httptest.NewRequest(http.MethodGet, "/api/check-env", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"environmentReady": false,
		"variables": {"CACILDA_DATABASE_URL": "Set", "CACILDA_OPENAI_API_KEY": "Not set"}
	}`, w.Body.String())
}

func TestStatusHandler_TestConnection(t *testing.T) {
	prober := new(MockConnectionProber)
	handler := NewStatusHandler(MockEnvChecker{}, prober, nil)

	prober.On("Count", mock.Anything).Return(int64(12), nil).Once()
	prober.On("Count", mock.Anything).Return(int64(0), errors.New("refused")).Once()

	w := httptest.NewRecorder()
	handler.TestConnection(w, httptest.NewRequest(http.MethodGet, "/api/test-connection", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	w = httptest.NewRecorder()
	handler.TestConnection(w, httptest.NewRequest(http.MethodGet, "/api/test-connection", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Erro ao testar conexão"}`, w.Body.String())
}

func TestStatusHandler_Health(t *testing.T) {
	handler := NewStatusHandler(MockEnvChecker{}, new(MockConnectionProber), nil)

	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

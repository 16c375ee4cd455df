package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cacildafilmes/cacilda/internal/domain"
)

func TestAssistantHandler_Initialize(t *testing.T) {
	svc := new(MockAssistantService)
	handler := NewAssistantHandler(svc)

	svc.On("Initialize", mock.Anything).Return(&domain.AssistantSession{
		ID: "6f1c1a52-3c5e-4c7b-9a57-0f8d7b0c2e11", AssistantID: "asst_1", ThreadID: "thread_1",
	}, nil)

	w := httptest.NewRecorder()
	handler.Handle(w, httptest.NewRequest(http.MethodPost, "/api/openai-assistant",
		bytes.NewBufferString(`{"action":"initialize"}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"success": true,
		"session_id": "6f1c1a52-3c5e-4c7b-9a57-0f8d7b0c2e11",
		"assistantId": "asst_1",
		"threadId": "thread_1"
	}`, w.Body.String())
}

func TestAssistantHandler_Message(t *testing.T) {
	svc := new(MockAssistantService)
	handler := NewAssistantHandler(svc)

	svc.On("Message", mock.Anything, "sess", "Quanto custa um vídeo?").Return([]string{"Depende do projeto."}, nil)

	w := httptest.NewRecorder()
	handler.Handle(w, httptest.NewRequest(http.MethodPost, "/api/openai-assistant",
		bytes.NewBufferString(`{"action":"message","session_id":"sess","message":"Quanto custa um vídeo?"}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"messages":["Depende do projeto."]}`, w.Body.String())
}

func TestAssistantHandler_NotInitialized(t *testing.T) {
	svc := new(MockAssistantService)
	handler := NewAssistantHandler(svc)

	svc.On("Message", mock.Anything, "", "oi").Return(nil, domain.ErrAssistantNotReady)

	w := httptest.NewRecorder()
	handler.Handle(w, httptest.NewRequest(http.MethodPost, "/api/openai-assistant",
		bytes.NewBufferString(`{"action":"message","message":"oi"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Assistant not initialized"}`, w.Body.String())
}

func TestAssistantHandler_InvalidAction(t *testing.T) {
	svc := new(MockAssistantService)
	handler := NewAssistantHandler(svc)

	w := httptest.NewRecorder()
	handler.Handle(w, httptest.NewRequest(http.MethodPost, "/api/openai-assistant",
		bytes.NewBufferString(`{"action":"dance"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid action"}`, w.Body.String())
}

package handlers

import (
	"context"
	"net/http"

	"github.com/cacildafilmes/cacilda/internal/api"
	"github.com/cacildafilmes/cacilda/internal/domain"
)

const (
	assistantActionInitialize = "initialize"
	assistantActionMessage    = "message"
)

type AssistantService interface {
	Initialize(ctx context.Context) (*domain.AssistantSession, error)
	Message(ctx context.Context, sessionID, message string) ([]string, error)
}

type AssistantHandler struct {
	svc AssistantService
}

func NewAssistantHandler(svc AssistantService) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

type AssistantRequest struct {
	Action    string `json:"action"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type AssistantInitResponse struct {
	Success     bool   `json:"success"`
	SessionID   string `json:"session_id"`
	AssistantID string `json:"assistantId"`
	ThreadID    string `json:"threadId"`
}

type AssistantMessageResponse struct {
	Success  bool     `json:"success"`
	Messages []string `json:"messages"`
}

type AssistantErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func assistantError(w http.ResponseWriter, err error) {
	api.JSON(w, api.DomainErrorToHTTP(err), AssistantErrorResponse{Error: api.PublicMessage(err)})
}

func (h *AssistantHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req AssistantRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		assistantError(w, err)
		return
	}

	switch req.Action {
	case assistantActionInitialize:
		session, err := h.svc.Initialize(r.Context())
		if err != nil {
			assistantError(w, err)
			return
		}
		api.JSON(w, http.StatusOK, AssistantInitResponse{
			Success:     true,
			SessionID:   session.ID,
			AssistantID: session.AssistantID,
			ThreadID:    session.ThreadID,
		})

	case assistantActionMessage:
		replies, err := h.svc.Message(r.Context(), req.SessionID, req.Message)
		if err != nil {
			assistantError(w, err)
			return
		}
		if replies == nil {
			replies = []string{}
		}
		api.JSON(w, http.StatusOK, AssistantMessageResponse{Success: true, Messages: replies})

	default:
		assistantError(w, domain.ErrInvalidAction)
	}
}

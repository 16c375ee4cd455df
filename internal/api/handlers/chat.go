package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/api"
	"github.com/cacildafilmes/cacilda/internal/domain"
	"github.com/cacildafilmes/cacilda/internal/logging"
	"github.com/cacildafilmes/cacilda/internal/service"
)

type ChatService interface {
	Answer(ctx context.Context, messages []domain.ChatMessage) (*service.Answer, error)
	Deliver(ctx context.Context, a *service.Answer, w io.Writer) error
}

type ChatHandler struct {
	svc    ChatService
	logger *zap.Logger
}

func NewChatHandler(svc ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logging.OrNop(logger)}
}

type ChatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
}

// Chat answers one turn. Every failure that can happen before the first byte
// is a JSON error; after that the plain-text body is simply cut short.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.HandleError(w, err)
		return
	}

	answer, err := h.svc.Answer(r.Context(), req.Messages)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Answer-Source", string(answer.Source))
	w.WriteHeader(http.StatusOK)

	if err := h.svc.Deliver(r.Context(), answer, w); err != nil && !errors.Is(err, context.Canceled) {
		h.logger.Warn("chat answer cut short", zap.String("source", string(answer.Source)), zap.Error(err))
	}
}

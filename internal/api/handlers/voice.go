package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/api"
	"github.com/cacildafilmes/cacilda/internal/domain"
	"github.com/cacildafilmes/cacilda/internal/elevenlabs"
	"github.com/cacildafilmes/cacilda/internal/logging"
)

type SignedURLIssuer interface {
	SignedURL(ctx context.Context, agentID, origin string) (string, error)
}

type VoiceHandler struct {
	issuer SignedURLIssuer
	logger *zap.Logger
}

func NewVoiceHandler(issuer SignedURLIssuer, logger *zap.Logger) *VoiceHandler {
	return &VoiceHandler{issuer: issuer, logger: logging.OrNop(logger)}
}

type SignedURLResponse struct {
	SignedURL string `json:"signedUrl"`
}

func (h *VoiceHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	agentID := r.URL.Query().Get("agentId")

	signedURL, err := h.issuer.SignedURL(r.Context(), agentID, r.Header.Get("Origin"))
	if err != nil {
		h.logger.Error("failed to generate signed url", zap.String("agent_id", agentID), zap.Error(err))

		var perr *elevenlabs.ProviderError
		var derr *domain.DomainError
		switch {
		case errors.As(err, &perr):
			api.Error(w, perr.StatusCode, perr.Error())
		case errors.As(err, &derr):
			api.HandleError(w, err)
		default:
			api.Error(w, http.StatusInternalServerError, "Failed to generate signed URL")
		}
		return
	}

	api.JSON(w, http.StatusOK, SignedURLResponse{SignedURL: signedURL})
}

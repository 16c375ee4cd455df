package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/cacildafilmes/cacilda/internal/api"
	"github.com/cacildafilmes/cacilda/internal/domain"
)

type KnowledgeService interface {
	Add(ctx context.Context, t domain.KnowledgeType, content string) (*domain.KnowledgeItem, error)
}

type KnowledgeHandler struct {
	svc KnowledgeService
}

func NewKnowledgeHandler(svc KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc}
}

type UpdateKnowledgeRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type KnowledgeResponse struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type UpdateKnowledgeResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    []KnowledgeResponse `json:"data"`
}

func (h *KnowledgeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateKnowledgeRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.HandleResultError(w, err)
		return
	}

	if req.Type == "" || strings.TrimSpace(req.Content) == "" {
		api.Result(w, http.StatusBadRequest, "Tipo e conteúdo são obrigatórios")
		return
	}

	item, err := h.svc.Add(r.Context(), domain.KnowledgeType(req.Type), req.Content)
	if err != nil {
		api.HandleResultError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, UpdateKnowledgeResponse{
		Success: true,
		Message: "Base de conhecimento atualizada com sucesso",
		Data:    []KnowledgeResponse{{ID: item.ID, Type: string(item.Type), Content: item.Content}},
	})
}

package handlers

import (
	"context"
	"net/http"

	"github.com/cacildafilmes/cacilda/internal/api"
	"github.com/cacildafilmes/cacilda/internal/domain"
	"github.com/cacildafilmes/cacilda/internal/service"
)

type VideoService interface {
	List(ctx context.Context) ([]domain.VideoSummary, error)
	Upload(ctx context.Context, input service.UploadInput) (*domain.Video, error)
	Delete(ctx context.Context, id int64) error
}

type VideoHandler struct {
	svc VideoService
}

func NewVideoHandler(svc VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

type ListVideosResponse struct {
	Success bool                  `json:"success"`
	Videos  []domain.VideoSummary `json:"videos"`
}

type UploadVideoRequest struct {
	Client      string `json:"client"`
	Title       string `json:"title"`
	Production  string `json:"production"`
	Creation    string `json:"creation"`
	Category    string `json:"category"`
	Description string `json:"description"`
	VimeoLink   string `json:"vimeoLink"`
}

type DeleteVideoRequest struct {
	ID int64 `json:"id"`
}

func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	videos, err := h.svc.List(r.Context())
	if err != nil {
		api.HandleResultError(w, err)
		return
	}
	if videos == nil {
		videos = []domain.VideoSummary{}
	}
	api.JSON(w, http.StatusOK, ListVideosResponse{Success: true, Videos: videos})
}

func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req UploadVideoRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.HandleResultError(w, err)
		return
	}

	_, err := h.svc.Upload(r.Context(), service.UploadInput{
		Client:      req.Client,
		Title:       req.Title,
		Production:  req.Production,
		Creation:    req.Creation,
		Category:    req.Category,
		Description: req.Description,
		VimeoLink:   req.VimeoLink,
	})
	if err != nil {
		api.HandleResultError(w, err)
		return
	}

	api.Result(w, http.StatusOK, "Vídeo adicionado com sucesso")
}

func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteVideoRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.HandleResultError(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), req.ID); err != nil {
		api.HandleResultError(w, err)
		return
	}

	api.Result(w, http.StatusOK, "Vídeo deletado com sucesso")
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/feedback/internal/api"
	"github.com/cloo-solutions/feedback/internal/domain"
	"github.com/go-chi/chi/v5"
)

type FeedbackService interface {
	Submit(ctx context.Context, req domain.FeedbackRequest) (*domain.Feedback, error)
	GetByID(ctx context.Context, id string) (*domain.Feedback, error)
	ListByMember(ctx context.Context, memberID string) ([]*domain.Feedback, error)
}

type FeedbackHandler struct {
	svc FeedbackService
}

func NewFeedbackHandler(svc FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// Create handles POST /feedback.
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, domain.ErrInvalidBody)
		return
	}

	feedback, err := h.svc.Submit(r.Context(), req)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, feedback)
}

// Get handles GET /feedback/{id}.
func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, feedback)
}

// List handles GET /feedback?memberId=.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListByMember(r.Context(), r.URL.Query().Get("memberId"))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, items)
}

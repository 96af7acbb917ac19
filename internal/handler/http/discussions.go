package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/utils"
	"github.com/o-dots/backend/models"
)

// listDiscussionsResponse is the page envelope of GET /api/discussions.
type listDiscussionsResponse struct {
	Discussions      []models.Discussion `json:"discussions"`
	TotalDiscussions int                 `json:"totalDiscussions"`
	CurrentPage      int                 `json:"currentPage"`
	TotalPages       int                 `json:"totalPages"`
}

func (h *Handler) listDiscussions(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptionsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts = opts.Normalize()

	discussions, total, err := h.services.DiscussionService.ListDiscussions(r.Context(), opts)
	if err != nil {
		h.respondError(w, r, err, "listing discussions failed")
		return
	}

	_, _ = utils.WriteJSON(w, listDiscussionsResponse{
		Discussions:      discussions,
		TotalDiscussions: total,
		CurrentPage:      opts.Page,
		TotalPages:       totalPages(total, opts.Limit),
	}, http.StatusOK)
}

func (h *Handler) getDiscussion(w http.ResponseWriter, r *http.Request) {
	discussion, err := h.services.DiscussionService.GetDiscussion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err, "getting discussion failed")
		return
	}

	_, _ = utils.WriteJSON(w, discussion, http.StatusOK)
}

func (h *Handler) createDiscussion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var discussion models.Discussion
	if err := json.NewDecoder(r.Body).Decode(&discussion); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.DiscussionService.CreateDiscussion(ctx, actor, discussion)
	if err != nil {
		h.respondError(w, r, err, "creating discussion failed")
		return
	}

	_, _ = utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) updateDiscussion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var discussion models.Discussion
	if err := json.NewDecoder(r.Body).Decode(&discussion); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	discussion.ID = chi.URLParam(r, "id")

	updated, err := h.services.DiscussionService.UpdateDiscussion(ctx, actor, discussion)
	if err != nil {
		h.respondError(w, r, err, "updating discussion failed")
		return
	}

	_, _ = utils.WriteJSON(w, updated, http.StatusOK)
}

func (h *Handler) deleteDiscussion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.DiscussionService.DeleteDiscussion(ctx, actor, chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, err, "deleting discussion failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

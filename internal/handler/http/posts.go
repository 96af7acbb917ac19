package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/utils"
	"github.com/o-dots/backend/models"
)

// listPostsResponse is the page envelope of GET /api/posts.
type listPostsResponse struct {
	Posts       []models.Post `json:"posts"`
	TotalPosts  int           `json:"totalPosts"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptionsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts = opts.Normalize()

	posts, total, err := h.services.PostService.ListPosts(r.Context(), opts)
	if err != nil {
		h.respondError(w, r, err, "listing posts failed")
		return
	}

	_, _ = utils.WriteJSON(w, listPostsResponse{
		Posts:       posts,
		TotalPosts:  total,
		CurrentPage: opts.Page,
		TotalPages:  totalPages(total, opts.Limit),
	}, http.StatusOK)
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.services.PostService.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err, "getting post failed")
		return
	}

	_, _ = utils.WriteJSON(w, post, http.StatusOK)
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var post models.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.PostService.CreatePost(ctx, actor, post)
	if err != nil {
		h.respondError(w, r, err, "creating post failed")
		return
	}

	_, _ = utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var post models.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	post.ID = chi.URLParam(r, "id")

	updated, err := h.services.PostService.UpdatePost(ctx, actor, post)
	if err != nil {
		h.respondError(w, r, err, "updating post failed")
		return
	}

	_, _ = utils.WriteJSON(w, updated, http.StatusOK)
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.PostService.DeletePost(ctx, actor, chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, err, "deleting post failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

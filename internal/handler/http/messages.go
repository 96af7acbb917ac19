package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/o-dots/backend/internal/utils"
)

func (h *Handler) listDiscussionMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.services.MessageService.ListByDiscussion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err, "listing discussion messages failed")
		return
	}

	_, _ = utils.WriteJSON(w, messages, http.StatusOK)
}

func (h *Handler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.MessageService.DeleteMessage(ctx, actor, chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, err, "deleting message failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

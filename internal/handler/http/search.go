package http

import (
	"net/http"
	"strconv"

	"github.com/o-dots/backend/internal/utils"
)

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	keyword := r.URL.Query().Get("keyword")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.services.SearchService.Search(ctx, keyword, limit)
	if err != nil {
		h.respondError(w, r, err, "search failed")
		return
	}

	_, _ = utils.WriteJSON(w, results, http.StatusOK)
}

package http

import (
	"errors"
	"net/http"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/service"
	"github.com/o-dots/backend/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:    http.StatusBadRequest,
	service.ErrWrongPassword:          http.StatusUnauthorized,
	service.ErrAccountNotVerified:     http.StatusUnauthorized,
	service.ErrTokenInvalid:           http.StatusUnauthorized,
	service.ErrTokenIsExpired:         http.StatusUnauthorized,
	service.ErrNotAllowed:             http.StatusForbidden,
	service.ErrPaymentStillProcessing: http.StatusRequestTimeout,
	service.ErrPaymentAlreadyResolved: http.StatusBadRequest,
	service.ErrUnexpectedWebhookEvent: http.StatusBadRequest,

	store.ErrEmailAlreadyExists: http.StatusConflict,
	store.ErrSlugAlreadyExists:  http.StatusConflict,
	store.ErrDuplicateMessage:   http.StatusConflict,
	store.ErrNoUserWasFound:     http.StatusNotFound,
	// a missing token row reaches a handler only through the single-use
	// verify/reset flows, where a consumed or unknown token is a client error;
	// the refresh path converts it to service.ErrTokenInvalid first
	store.ErrTokenNotFound: http.StatusBadRequest,
	store.ErrNotFound:           http.StatusNotFound,

	store.ErrBuildingSQLQuery: http.StatusInternalServerError,
	store.ErrExecutingQuery:   http.StatusInternalServerError,
	store.ErrScanningRow:      http.StatusInternalServerError,
	store.ErrScanningRows:     http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes the mapped status code. Client errors
// carry the sentinel's message; server errors only the status text, so
// internals never leak into response bodies.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := logger.FromRequest(r)
	log.Err(err).Msg(msg)

	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		http.Error(w, http.StatusText(status), status)
		return
	}
	http.Error(w, err.Error(), status)
}

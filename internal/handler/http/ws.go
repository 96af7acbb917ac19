package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/o-dots/backend/internal/chat"
	"github.com/o-dots/backend/internal/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin checks are delegated to the CORS layer in front of the API
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveWS upgrades an authenticated request to a websocket connection and
// hands it to the chat hub. Browsers cannot set headers on a websocket
// handshake, so the access token is also accepted as a "token" query
// parameter.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		if header := r.Header.Get("Authorization"); header != "" {
			tokenString, _ = getTokenFromAuthHeader(header)
		}
	}
	if tokenString == "" {
		log.Err(ErrEmptyToken).Msg("websocket handshake without token")
		http.Error(w, "No token provided", http.StatusUnauthorized)
		return
	}

	user, err := h.services.AuthService.Authenticate(r.Context(), tokenString)
	if err != nil {
		log.Err(err).Msg("websocket handshake rejected")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Err(err).Msg("websocket upgrade failed")
		return
	}

	client := chat.NewClient(h.hub, conn, user, h.logger)
	client.Serve(r.Context())
}

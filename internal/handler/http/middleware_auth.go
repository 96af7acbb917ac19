package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/service"
	"github.com/o-dots/backend/internal/utils"
)

// refreshTokenHeader carries the refresh token on requests that opt into the
// silent-refresh path, and the rotated refresh token on responses that used
// it.
const refreshTokenHeader = "X-Refresh-Token"

// auth enforces JWT-based authentication on the routes it wraps.
//
// It extracts the bearer token from the "Authorization" header and validates
// it via [service.AuthService.Authenticate]. On success the authenticated
// user is stored in the request context under [utils.UserCtxKey].
//
// When the access token is expired and the request also carries a refresh
// token in the X-Refresh-Token header, the middleware rotates a fresh token
// pair via [service.AuthService.RefreshCredentials], returns the new pair in
// the Authorization and X-Refresh-Token response headers, and lets the
// request proceed. Every other failure is rejected with 401.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		user, err := h.services.AuthService.Authenticate(ctx, tokenString)
		if err != nil {
			if errors.Is(err, service.ErrTokenIsExpired) {
				if refreshToken := r.Header.Get(refreshTokenHeader); refreshToken != "" {
					h.refreshAndContinue(w, r, next, refreshToken)
					return
				}
				log.Err(err).Msg("access token expired")
				http.Error(w, service.ErrTokenIsExpired.Error(), http.StatusUnauthorized)
				return
			}
			log.Err(err).Msg("access token rejected")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx = context.WithValue(ctx, utils.UserCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates a route behind one of the listed roles. It must run
// inside the auth middleware, which puts the user in the context.
func (h *Handler) requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := utils.GetUserFromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.FromRequest(r).Warn().
				Str("role", user.Role).
				Str("uri", r.RequestURI).
				Msg("role not allowed")
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// refreshAndContinue rotates a token pair off the presented refresh token
// and serves the original request as the refreshed user. The new credentials
// ride the response headers so the client can store them transparently.
func (h *Handler) refreshAndContinue(w http.ResponseWriter, r *http.Request, next http.Handler, refreshToken string) {
	log := logger.FromRequest(r)

	user, pair, err := h.services.AuthService.RefreshCredentials(r.Context(), refreshToken)
	if err != nil {
		log.Err(err).Msg("silent token refresh rejected")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", pair.AccessToken))
	w.Header().Set(refreshTokenHeader, pair.RefreshToken)

	ctx := context.WithValue(r.Context(), utils.UserCtxKey, user)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value of the form "<scheme> <token>".
//
// It returns the following sentinel errors:
//   - [ErrInvalidAuthorizationHeader] — if the header contains fewer than
//     two space-separated parts (i.e. the token is missing entirely).
//   - [ErrEmptyToken] — if the second part exists but is an empty string.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}

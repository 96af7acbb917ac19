// Package http implements the HTTP transport layer of the application.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API and the websocket chat endpoint. Cross-cutting concerns such as
// authentication, silent token refresh, request tracing, access logging,
// CORS, and auth-endpoint rate limiting are handled in this package before
// requests are delegated to the service layer.
package http

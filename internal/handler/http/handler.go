package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/o-dots/backend/internal/chat"
	"github.com/o-dots/backend/internal/config"
	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/service"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/internal/utils"
)

type Handler struct {
	services *service.Services
	hub      *chat.Hub

	version        string
	requestTimeout time.Duration
	authLimiter    *ipLimiter

	logger *logger.Logger
}

func NewHandler(services *service.Services, hub *chat.Hub, cfg *config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		hub:            hub,
		version:        cfg.App.Version,
		requestTimeout: cfg.Server.RequestTimeout,
		authLimiter:    newIPLimiter(cfg.Server.AuthRateRPS, cfg.Server.AuthRateBurst),
		logger:         logger,
	}
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, map[string]string{
		"status":  "ok",
		"version": h.version,
	}, http.StatusOK)
}

// listOptionsFromQuery reads the shared pagination and sorting query
// parameters. Missing parameters fall back to the store defaults; present
// but malformed ones are a client error.
func listOptionsFromQuery(r *http.Request) (store.ListOptions, error) {
	query := r.URL.Query()

	page, err := positiveQueryInt(query.Get("page"))
	if err != nil {
		return store.ListOptions{}, fmt.Errorf("invalid page parameter: %w", err)
	}
	limit, err := positiveQueryInt(query.Get("limit"))
	if err != nil {
		return store.ListOptions{}, fmt.Errorf("invalid limit parameter: %w", err)
	}

	order := query.Get("order")
	switch {
	case order == "", strings.EqualFold(order, "asc"), strings.EqualFold(order, "desc"):
	default:
		return store.ListOptions{}, fmt.Errorf("invalid order parameter: %q", order)
	}

	return store.ListOptions{
		Page:   page,
		Limit:  limit,
		SortBy: query.Get("sortBy"),
		Order:  order,
	}, nil
}

func positiveQueryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if value < 1 {
		return 0, fmt.Errorf("%d is not a positive number", value)
	}

	return value, nil
}

// totalPages derives the page count from a total row count and the
// normalized page size.
func totalPages(total, limit int) int {
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

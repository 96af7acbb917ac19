package handler

import (
	"github.com/o-dots/backend/internal/chat"
	"github.com/o-dots/backend/internal/config"
	"github.com/o-dots/backend/internal/handler/http"
	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, hub *chat.Hub, cfg *config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, hub, cfg, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}

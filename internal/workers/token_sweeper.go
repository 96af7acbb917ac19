package workers

import (
	"context"
	"time"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/store"
)

// tokenSweeper periodically deletes expired token rows. Expired rows are
// already invisible to lookups, so the sweeper only reclaims space; a missed
// sweep is harmless.
type tokenSweeper struct {
	tokens   store.TokenRepository
	interval time.Duration

	logger *logger.Logger
}

func newTokenSweeper(tokens store.TokenRepository, interval time.Duration, logger *logger.Logger) *tokenSweeper {
	return &tokenSweeper{
		tokens:   tokens,
		interval: interval,
		logger:   logger,
	}
}

func (s *tokenSweeper) Run(ctx context.Context) {
	go s.loop(ctx)
}

func (s *tokenSweeper) loop(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Msg("token sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("token sweeper stopping")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *tokenSweeper) sweep(ctx context.Context) {
	deleted, err := s.tokens.DeleteExpiredTokens(ctx, time.Now())
	if err != nil {
		s.logger.Err(err).Msg("sweeping expired tokens failed")
		return
	}

	if deleted > 0 {
		s.logger.Info().Int64("deleted", deleted).Msg("expired tokens swept")
	}
}

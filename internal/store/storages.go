// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 O-dots

package store

import (
	"context"

	"github.com/o-dots/backend/internal/config"
	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/migrations"
)

// Storages bundles every repository behind its interface. Constructed once
// at startup and handed to the service layer.
type Storages struct {
	UserRepository       UserRepository
	TokenRepository      TokenRepository
	CourseRepository     CourseRepository
	PostRepository       PostRepository
	ProductRepository    ProductRepository
	DiscussionRepository DiscussionRepository
	MessageRepository    MessageRepository
	PaymentRepository    PaymentRepository
	SearchRepository     SearchRepository

	db *DB
}

// NewStorages connects to PostgreSQL, applies the embedded schema
// migrations, and constructs every repository over the shared connection
// pool.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := migrations.Migrate(db.DB); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		return nil, err
	}

	return &Storages{
		UserRepository:       NewUserRepository(db, log),
		TokenRepository:      NewTokenRepository(db, log),
		CourseRepository:     NewCourseRepository(db, log),
		PostRepository:       NewPostRepository(db, log),
		ProductRepository:    NewProductRepository(db, log),
		DiscussionRepository: NewDiscussionRepository(db, log),
		MessageRepository:    NewMessageRepository(db, log),
		PaymentRepository:    NewPaymentRepository(db, log),
		SearchRepository:     NewSearchRepository(db, log),
		db:                   db,
	}, nil
}

// Close releases the underlying connection pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

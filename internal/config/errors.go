package config

import "errors"

var (
	// ErrNoDatabaseDSN is returned when no database connection string was
	// provided by any configuration source.
	ErrNoDatabaseDSN = errors.New("no database DSN provided")

	// ErrNoTokenSignKey is returned when the JWT signing key is missing.
	ErrNoTokenSignKey = errors.New("no token sign key provided")

	// ErrAccessOutlivesRefresh is returned when the configured access token
	// lifetime is not strictly shorter than the refresh token lifetime.
	ErrAccessOutlivesRefresh = errors.New("access token duration must be shorter than refresh token duration")
)

package config

import "time"

// Defaults applied after merging all sources. Only zero-valued fields are
// filled in; explicit configuration always wins.
const (
	defaultHTTPAddress          = "0.0.0.0:8080"
	defaultTokenIssuer          = "o-dots-backend"
	defaultAccessTokenDuration  = 15 * time.Minute
	defaultRefreshTokenDuration = 7 * 24 * time.Hour
	defaultVerifyTokenDuration  = 24 * time.Hour
	defaultResetTokenDuration   = time.Hour
	defaultRequestTimeout       = 30 * time.Second
	defaultPollAttempts         = 10
	defaultPollInterval         = 3 * time.Second
	defaultTokenSweepInterval   = time.Hour
)

func (c *StructuredConfig) applyDefaults() {
	if c.Server.HTTPAddress == "" {
		c.Server.HTTPAddress = defaultHTTPAddress
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = defaultRequestTimeout
	}
	if c.App.TokenIssuer == "" {
		c.App.TokenIssuer = defaultTokenIssuer
	}
	if c.App.AccessTokenDuration == 0 {
		c.App.AccessTokenDuration = defaultAccessTokenDuration
	}
	if c.App.RefreshTokenDuration == 0 {
		c.App.RefreshTokenDuration = defaultRefreshTokenDuration
	}
	if c.App.VerifyTokenDuration == 0 {
		c.App.VerifyTokenDuration = defaultVerifyTokenDuration
	}
	if c.App.ResetTokenDuration == 0 {
		c.App.ResetTokenDuration = defaultResetTokenDuration
	}
	if c.Payments.PollAttempts == 0 {
		c.Payments.PollAttempts = defaultPollAttempts
	}
	if c.Payments.PollInterval == 0 {
		c.Payments.PollInterval = defaultPollInterval
	}
	if c.Workers.TokenSweepInterval == 0 {
		c.Workers.TokenSweepInterval = defaultTokenSweepInterval
	}
}

// validate checks the invariants the rest of the application relies on.
func (c *StructuredConfig) validate() error {
	if c.Storage.DB.DSN == "" {
		return ErrNoDatabaseDSN
	}
	if c.App.TokenSignKey == "" {
		return ErrNoTokenSignKey
	}
	if c.App.AccessTokenDuration >= c.App.RefreshTokenDuration {
		return ErrAccessOutlivesRefresh
	}

	return nil
}

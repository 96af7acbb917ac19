package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration wraps time.Duration so JSON config files can express durations
// as human-readable strings ("15m", "1h30m").
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts either a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("error parsing duration %q: %w", value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration value: %v", v)
	}
}

// StructuredJSONConfig mirrors StructuredConfig with JSON tags and
// string-friendly durations for the optional config file.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey         string   `json:"token_sign_key"`
		TokenIssuer          string   `json:"token_issuer"`
		AccessTokenDuration  Duration `json:"access_token_duration"`
		RefreshTokenDuration Duration `json:"refresh_token_duration"`
		VerifyTokenDuration  Duration `json:"verify_token_duration"`
		ResetTokenDuration   Duration `json:"reset_token_duration"`
		ClientURL            string   `json:"client_url"`
		Version              string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AuthRateRPS    float64  `json:"auth_rate_rps"`
		AuthRateBurst  int      `json:"auth_rate_burst"`
	} `json:"server,omitempty"`

	Email struct {
		Host     string `json:"host"`
		Port     int    `json:"port"`
		Username string `json:"username"`
		Password string `json:"password"`
		From     string `json:"from"`
	} `json:"email,omitempty"`

	Payments struct {
		StripeSecretKey string   `json:"stripe_secret_key"`
		StripeBaseURL   string   `json:"stripe_base_url"`
		PollAttempts    int      `json:"poll_attempts"`
		PollInterval    Duration `json:"poll_interval"`
	} `json:"payments,omitempty"`

	Workers struct {
		TokenSweepInterval Duration `json:"token_sweep_interval"`
	} `json:"workers,omitempty"`
}

// parseJSON reads the config file at path and converts it into a
// *StructuredConfig suitable for merging with the env and flag sources.
func parseJSON(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading JSON config file: %w", err)
	}

	var jsonCfg StructuredJSONConfig
	if err := json.Unmarshal(data, &jsonCfg); err != nil {
		return nil, fmt.Errorf("error parsing JSON config file: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:         jsonCfg.App.TokenSignKey,
			TokenIssuer:          jsonCfg.App.TokenIssuer,
			AccessTokenDuration:  jsonCfg.App.AccessTokenDuration.Duration,
			RefreshTokenDuration: jsonCfg.App.RefreshTokenDuration.Duration,
			VerifyTokenDuration:  jsonCfg.App.VerifyTokenDuration.Duration,
			ResetTokenDuration:   jsonCfg.App.ResetTokenDuration.Duration,
			ClientURL:            jsonCfg.App.ClientURL,
			Version:              jsonCfg.App.Version,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: jsonCfg.Server.RequestTimeout.Duration,
			AuthRateRPS:    jsonCfg.Server.AuthRateRPS,
			AuthRateBurst:  jsonCfg.Server.AuthRateBurst,
		},
		Email: Email{
			Host:     jsonCfg.Email.Host,
			Port:     jsonCfg.Email.Port,
			Username: jsonCfg.Email.Username,
			Password: jsonCfg.Email.Password,
			From:     jsonCfg.Email.From,
		},
		Payments: Payments{
			StripeSecretKey: jsonCfg.Payments.StripeSecretKey,
			StripeBaseURL:   jsonCfg.Payments.StripeBaseURL,
			PollAttempts:    jsonCfg.Payments.PollAttempts,
			PollInterval:    jsonCfg.Payments.PollInterval.Duration,
		},
		Workers: Workers{
			TokenSweepInterval: jsonCfg.Workers.TokenSweepInterval.Duration,
		},
	}
	cfg.Storage.DB.DSN = jsonCfg.Storage.DB.DSN

	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"time"
)

// AuthConfig configures access-token issuance and verification.
//
// The signing secret is deployment-provided; it must never be compiled into
// the binary.
type AuthConfig struct {
	// Secret is the HMAC-SHA256 signing key shared by issuance and verification.
	Secret []byte

	// TokenTTL is how long issued tokens remain valid.
	TokenTTL time.Duration

	// ClockSkew is the tolerance applied when checking exp.
	ClockSkew time.Duration
}

func LoadAuthConfigFromEnv() (AuthConfig, error) {
	secret := os.Getenv("AUTH_TOKEN_SECRET")
	if secret == "" {
		return AuthConfig{}, fmt.Errorf("missing required env var: AUTH_TOKEN_SECRET")
	}

	// Defaults match the product contract: tokens are valid for one day.
	cfg := AuthConfig{
		Secret:    []byte(secret),
		TokenTTL:  24 * time.Hour,
		ClockSkew: 30 * time.Second,
	}

	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return AuthConfig{}, fmt.Errorf("AUTH_TOKEN_TTL must be a duration (e.g. 24h): %w", err)
		}
		cfg.TokenTTL = d
	}
	if v := os.Getenv("AUTH_CLOCK_SKEW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return AuthConfig{}, fmt.Errorf("AUTH_CLOCK_SKEW must be a duration (e.g. 30s): %w", err)
		}
		cfg.ClockSkew = d
	}

	return cfg, nil
}

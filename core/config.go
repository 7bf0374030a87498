package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	EnvironmentProduction = "production"
	EnvironmentSandbox    = "sandbox"
)

const (
	// DefaultTokenSafetyWindow stays strictly below the server-side token
	// lifetime (10 minutes) so a token is never presented while its remote
	// expiry races the local clock.
	DefaultTokenSafetyWindow = 9 * time.Minute

	// DefaultSeededTokenLifetime is the conservative remaining lifetime
	// assumed for a caller-supplied token whose issuance time is unknown.
	DefaultSeededTokenLifetime = 4 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
)

type Config struct {
	ServiceName          string        `koanf:"service_name" mapstructure:"service_name"`
	Environment          string        `koanf:"environment" mapstructure:"environment"`
	Profile              string        `koanf:"profile" mapstructure:"profile"`
	TokenSafetyWindow    time.Duration `koanf:"token_safety_window" mapstructure:"token_safety_window"`
	SeededTokenLifetime  time.Duration `koanf:"seeded_token_lifetime" mapstructure:"seeded_token_lifetime"`
	RequestTimeout       time.Duration `koanf:"request_timeout" mapstructure:"request_timeout"`
	EncryptedCredentials bool          `koanf:"encrypted_credentials" mapstructure:"encrypted_credentials"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:         "payout-attest",
		Environment:         EnvironmentSandbox,
		Profile:             "v2",
		TokenSafetyWindow:   DefaultTokenSafetyWindow,
		SeededTokenLifetime: DefaultSeededTokenLifetime,
		RequestTimeout:      DefaultRequestTimeout,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	switch strings.TrimSpace(strings.ToLower(c.Environment)) {
	case EnvironmentProduction, EnvironmentSandbox:
	default:
		return fmt.Errorf("core: environment must be %q or %q", EnvironmentProduction, EnvironmentSandbox)
	}
	if c.TokenSafetyWindow < 0 {
		return fmt.Errorf("core: token_safety_window must not be negative")
	}
	if c.SeededTokenLifetime < 0 {
		return fmt.Errorf("core: seeded_token_lifetime must not be negative")
	}
	return nil
}

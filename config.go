package auth

import (
	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
)

// AuthConfig carries the process-wide secrets the token service and the
// admin login path need. It is injected at construction time so tests can
// run with fixture secrets instead of ambient env state.
type AuthConfig struct {
	SigningKey          string `env:"JWT_SECRET"`
	AdminEmail          string `env:"ADMIN_EMAIL"`
	AdminPassword       string `env:"ADMIN_PASSWORD"`
	UseDeterministicIDs bool   `env:"AUTH_DETERMINISTIC_IDS" envDefault:"false"`
}

var _ Config = (*AuthConfig)(nil)

// LoadConfig reads the auth configuration from the environment.
func LoadConfig() (*AuthConfig, error) {
	cfg := &AuthConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to parse auth environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures the config can actually sign tokens.
func (c *AuthConfig) Validate() error {
	if c.SigningKey == "" {
		return goerrors.New("auth config requires a signing key", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	return nil
}

func (c *AuthConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *AuthConfig) GetAdminEmail() string {
	return c.AdminEmail
}

func (c *AuthConfig) GetAdminPassword() string {
	return c.AdminPassword
}

func (c *AuthConfig) GetUseDeterministicIDs() bool {
	return c.UseDeterministicIDs
}

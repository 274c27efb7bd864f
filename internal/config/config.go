package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings, loaded from environment variables.
// A .env file in the working directory is honored when present.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`

	// DatabaseURL selects the Postgres-backed session and user stores.
	// When empty the service runs with in-memory stores.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	TokenLifetime time.Duration `envconfig:"TOKEN_LIFETIME" default:"24h"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD" default:"Admin@123456"`

	// AzureSubscriptionID is substituted when a user types "default" at
	// the subscription prompt.
	AzureSubscriptionID string `envconfig:"AZURE_SUBSCRIPTION_ID"`

	// Provisioner chooses the direct-API backend: "simulated" or "arm".
	Provisioner      string        `envconfig:"PROVISIONER" default:"simulated"`
	ProvisionTimeout time.Duration `envconfig:"PROVISION_TIMEOUT" default:"10m"`

	// SessionTTL is the idle threshold after which a session is lazily
	// reset on next access. Zero disables expiry.
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"1h"`
}

// Load reads configuration from the environment, after best-effort
// loading of a local .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Provisioner != "simulated" && cfg.Provisioner != "arm" {
		return nil, fmt.Errorf("invalid PROVISIONER %q: must be \"simulated\" or \"arm\"", cfg.Provisioner)
	}

	return &cfg, nil
}

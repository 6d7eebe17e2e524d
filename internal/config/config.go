package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Providers
	FaceProvider string `envconfig:"FACE_PROVIDER" default:"mock"`
	AWSRegion    string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Routine generation
	AnthropicAPIKey string        `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel  string        `envconfig:"ANTHROPIC_MODEL" default:"claude-3-5-haiku-latest"`
	RoutineTimeout  time.Duration `envconfig:"ROUTINE_TIMEOUT" default:"15s"`

	// Image storage (optional; analyses keep only a reference)
	AzureStorageAccount   string `envconfig:"AZURE_STORAGE_ACCOUNT"`
	AzureStorageKey       string `envconfig:"AZURE_STORAGE_KEY"`
	AzureStorageContainer string `envconfig:"AZURE_STORAGE_CONTAINER" default:"selfies"`

	// Tier limits
	FreeDailyQuota    int `envconfig:"FREE_DAILY_QUOTA" default:"3"`
	FreeHistoryDepth  int `envconfig:"FREE_HISTORY_DEPTH" default:"3"`
	PremiumDailyQuota int `envconfig:"PREMIUM_DAILY_QUOTA" default:"50"`

	// Burst limiting for similarity search
	SimilarSearchLimit  int           `envconfig:"SIMILAR_SEARCH_LIMIT" default:"30"`
	SimilarSearchWindow time.Duration `envconfig:"SIMILAR_SEARCH_WINDOW" default:"1m"`

	// Background maintenance
	RetentionSchedule string        `envconfig:"RETENTION_SCHEDULE" default:"@hourly"`
	EntitlementTTL    time.Duration `envconfig:"ENTITLEMENT_TTL" default:"5m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RoutineEnabled reports whether routine generation should call the
// model API at all. Without a key the service uses the static fallback.
func (c *Config) RoutineEnabled() bool {
	return c.AnthropicAPIKey != ""
}

// BlobStorageEnabled reports whether selfies should be archived to
// object storage after analysis.
func (c *Config) BlobStorageEnabled() bool {
	return c.AzureStorageAccount != "" && c.AzureStorageKey != ""
}

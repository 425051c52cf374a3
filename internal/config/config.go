package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	Region    string `envconfig:"AWS_REGION" required:"true"`
	TableName string `envconfig:"TABLE_NAME" required:"true"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	AuthMode   string `envconfig:"AUTH_MODE" default:"none"`
	APIKey     string `envconfig:"API_KEY"`
	UserPoolID string `envconfig:"COGNITO_USER_POOL_ID"`

	RedisAddr    string        `envconfig:"REDIS_ADDR"`
	RoleCacheTTL time.Duration `envconfig:"ROLE_CACHE_TTL" default:"5m"`

	NewsRefreshInterval time.Duration `envconfig:"NEWS_REFRESH_INTERVAL" default:"5m"`
	NewsMaxItems        int           `envconfig:"NEWS_MAX_ITEMS" default:"30"`
	NewsHTTPTimeout     time.Duration `envconfig:"NEWS_HTTP_TIMEOUT" default:"10s"`
	USGSFeedURL         string        `envconfig:"USGS_FEED_URL"`
	EONETFeedURL        string        `envconfig:"EONET_FEED_URL"`
	ReliefWebFeedURL    string        `envconfig:"RELIEFWEB_FEED_URL"`
	ReliefWebAppName    string        `envconfig:"RELIEFWEB_APP_NAME" default:"disaster-response"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Region == "" || c.TableName == "" {
		return errors.New("AWS_REGION and TABLE_NAME must be set")
	}
	switch c.AuthMode {
	case "none", "":
	case "api_key":
		if c.APIKey == "" {
			return errors.New("API_KEY is required for api_key auth mode")
		}
	case "cognito":
		if c.UserPoolID == "" {
			return errors.New("COGNITO_USER_POOL_ID is required for cognito auth mode")
		}
	default:
		return fmt.Errorf("invalid AUTH_MODE %q", c.AuthMode)
	}
	if c.NewsRefreshInterval < time.Minute || c.NewsRefreshInterval > time.Hour {
		return fmt.Errorf("NEWS_REFRESH_INTERVAL must be between 1m and 1h, got %s", c.NewsRefreshInterval)
	}
	if c.NewsMaxItems <= 0 {
		return errors.New("NEWS_MAX_ITEMS must be positive")
	}
	if c.NewsHTTPTimeout <= 0 {
		return errors.New("NEWS_HTTP_TIMEOUT must be positive")
	}
	if c.RateLimitPerMinute <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

// NewsCacheTTL keeps a snapshot alive across one missed poll.
func (c *Config) NewsCacheTTL() time.Duration {
	return 2 * c.NewsRefreshInterval
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	Environment string           `yaml:"environment"`
	HTTP        HTTPConfig       `yaml:"http"`
	AI          AIConfig         `yaml:"ai"`
	Updates     UpdatesConfig    `yaml:"updates"`
	Archive     ArchiveConfig    `yaml:"archive"`
	ImageStore  ImageStoreConfig `yaml:"imageStore"`
	Auth        AuthConfig       `yaml:"auth"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	MaxBodyBytes   int64           `yaml:"maxBodyBytes"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	PingMessage    string          `yaml:"pingMessage"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the advisory request limiting middleware.
type RateLimitConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Requests   int           `yaml:"requests"`
	Window     time.Duration `yaml:"window"`
	MaxClients int           `yaml:"maxClients"`
	Valkey     ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the shared counter.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// AIConfig contains Gemini provider settings.
type AIConfig struct {
	APIKey          string        `yaml:"apiKey"`
	BaseURL         string        `yaml:"baseUrl"`
	Model           string        `yaml:"model"`
	FallbackModel   string        `yaml:"fallbackModel"`
	Temperature     float32       `yaml:"temperature"`
	MaxOutputTokens int           `yaml:"maxOutputTokens"`
	Timeout         time.Duration `yaml:"timeout"`
	RequireAI       bool          `yaml:"requireAi"`
}

// UpdatesConfig controls the weather/market/scheme updates domain.
type UpdatesConfig struct {
	WeatherBaseURL string  `yaml:"weatherBaseUrl"`
	DefaultLat     float64 `yaml:"defaultLat"`
	DefaultLon     float64 `yaml:"defaultLon"`
}

// ArchiveConfig contains DSN and pooling settings for saved advisories.
type ArchiveConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ImageStoreConfig controls optional archival of uploaded crop photos.
type ImageStoreConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// AuthConfig controls optional bearer-token identity.
type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("PING_MESSAGE"); v != "" {
		cfg.HTTP.PingMessage = v
	}
	if v := os.Getenv("AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("AI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("AI_FALLBACK_MODEL"); v != "" {
		cfg.AI.FallbackModel = v
	}
	if v := os.Getenv("AI_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.AI.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("AI_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.AI.Timeout = parsed
		}
	}
	if v := os.Getenv("AI_REQUIRED"); v != "" {
		cfg.AI.RequireAI = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Updates.WeatherBaseURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Archive.Postgres.DSN = v
	}
	if v := os.Getenv("DATABASE_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Archive.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("DATABASE_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Archive.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Requests = parsed
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.RateLimit.Window = parsed
		}
	}
	if v := os.Getenv("RATE_LIMIT_VALKEY_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("RATE_LIMIT_VALKEY_ADDR"); v != "" {
		cfg.HTTP.RateLimit.Valkey.Addr = v
	}
	if v := os.Getenv("IMAGE_STORE_ENABLED"); v != "" {
		cfg.ImageStore.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("IMAGE_STORE_ENDPOINT"); v != "" {
		cfg.ImageStore.Endpoint = v
	}
	if v := os.Getenv("IMAGE_STORE_ACCESS_KEY"); v != "" {
		cfg.ImageStore.AccessKey = v
	}
	if v := os.Getenv("IMAGE_STORE_SECRET_KEY"); v != "" {
		cfg.ImageStore.SecretKey = v
	}
	if v := os.Getenv("IMAGE_STORE_BUCKET"); v != "" {
		cfg.ImageStore.Bucket = v
	}
	if v := os.Getenv("IMAGE_STORE_REGION"); v != "" {
		cfg.ImageStore.Region = v
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
}

func defaultConfig() *Config {
	return &Config{
		Environment: "development",
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 45 * time.Second,
			MaxBodyBytes: 6 << 20,
			PingMessage:  "ping",
			RateLimit: RateLimitConfig{
				Enabled:    true,
				Requests:   10,
				Window:     60 * time.Second,
				MaxClients: 10000,
			},
		},
		AI: AIConfig{
			BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
			Model:           "gemini-1.5-flash",
			FallbackModel:   "gemini-1.5-flash-8b",
			Temperature:     0.4,
			MaxOutputTokens: 2048,
			Timeout:         20 * time.Second,
		},
		Updates: UpdatesConfig{
			WeatherBaseURL: "https://api.open-meteo.com/v1/forecast",
			DefaultLat:     20.59,
			DefaultLon:     78.96,
		},
		Archive: ArchiveConfig{
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return errors.New("http.maxBodyBytes must be positive")
	}
	if c.AI.BaseURL == "" {
		return errors.New("ai.baseUrl cannot be empty")
	}
	if strings.TrimSpace(c.AI.Model) == "" {
		return errors.New("ai.model cannot be empty")
	}
	if c.AI.Timeout <= 0 {
		return errors.New("ai.timeout must be positive")
	}
	if c.Updates.WeatherBaseURL == "" {
		return errors.New("updates.weatherBaseUrl cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.Requests <= 0 {
			return errors.New("http.rateLimit.requests must be positive")
		}
		if c.HTTP.RateLimit.Window <= 0 {
			return errors.New("http.rateLimit.window must be positive")
		}
		if c.HTTP.RateLimit.Valkey.Enabled && strings.TrimSpace(c.HTTP.RateLimit.Valkey.Addr) == "" {
			return errors.New("http.rateLimit.valkey.addr cannot be empty when valkey is enabled")
		}
	}
	if c.ImageStore.Enabled {
		if c.ImageStore.Endpoint == "" || c.ImageStore.Bucket == "" {
			return errors.New("imageStore.endpoint and imageStore.bucket are required when enabled")
		}
	}
	return nil
}

// Production reports whether the service runs with production policies.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "1.4"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Provider    ProviderConfig
	Sender      SenderConfig
	Security    SecurityConfig
	Scheduler   SchedulerConfig
	SiteURL     string
	ShortURL    string
	Environment string
	LogLevel    string
	Version     string
}

type ServerConfig struct {
	Port int
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type ProviderConfig struct {
	APIKey           string
	BaseURL          string
	DefaultSegmentID string
	UseBroadcastAPI  bool
}

type SenderConfig struct {
	FromName  string
	FromEmail string
	ReplyTo   string
}

type SecurityConfig struct {
	// Admin bearer key compared in constant time by the auth middleware
	AdminAPIKey string

	// Shared webhook secret, base64-decoded bytes kept for HMAC verification
	WebhookSecret      string
	WebhookSecretBytes []byte

	// Signing secret for double-opt-in confirmation tokens
	ConfirmTokenSecret string

	// Bootstrap credentials for the initial owner account, applied at
	// startup when the account does not exist yet
	AdminEmail    string
	AdminPassword string
}

type SchedulerConfig struct {
	Enabled  bool
	Interval time.Duration

	// Regional offset applied to day-anchored sequence scheduling,
	// in minutes east of UTC.
	RegionalOffsetMinutes int
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "postwind")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	v.SetDefault("PROVIDER_BASE_URL", "https://api.resend.com")
	v.SetDefault("USE_BROADCAST_API", false)
	v.SetDefault("SENDER_FROM_NAME", "Postwind")

	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("SCHEDULER_INTERVAL", "1m")
	// Deployment region is JST unless overridden
	v.SetDefault("REGIONAL_UTC_OFFSET_MINUTES", 540)

	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}
		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if the env file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	apiKey := v.GetString("PROVIDER_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("PROVIDER_API_KEY is required")
	}

	adminKey := v.GetString("ADMIN_API_KEY")
	if adminKey == "" {
		return nil, fmt.Errorf("ADMIN_API_KEY is required")
	}

	siteURL := strings.TrimRight(v.GetString("SITE_URL"), "/")
	if siteURL == "" {
		return nil, fmt.Errorf("SITE_URL is required")
	}

	shortURL := strings.TrimRight(v.GetString("SHORT_URL"), "/")
	if shortURL == "" {
		shortURL = siteURL + "/r"
	}

	webhookSecret := v.GetString("WEBHOOK_SECRET")
	var webhookSecretBytes []byte
	if webhookSecret != "" {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(webhookSecret, "whsec_"))
		if err != nil {
			return nil, fmt.Errorf("error decoding WEBHOOK_SECRET: %w", err)
		}
		webhookSecretBytes = decoded
	}

	confirmSecret := v.GetString("CONFIRM_TOKEN_SECRET")
	if confirmSecret == "" {
		confirmSecret = adminKey
	}

	interval, err := time.ParseDuration(v.GetString("SCHEDULER_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_INTERVAL: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Provider: ProviderConfig{
			APIKey:           apiKey,
			BaseURL:          strings.TrimRight(v.GetString("PROVIDER_BASE_URL"), "/"),
			DefaultSegmentID: v.GetString("PROVIDER_DEFAULT_SEGMENT_ID"),
			UseBroadcastAPI:  v.GetBool("USE_BROADCAST_API"),
		},
		Sender: SenderConfig{
			FromName:  v.GetString("SENDER_FROM_NAME"),
			FromEmail: v.GetString("SENDER_FROM_EMAIL"),
			ReplyTo:   v.GetString("SENDER_REPLY_TO"),
		},
		Security: SecurityConfig{
			AdminAPIKey:        adminKey,
			WebhookSecret:      webhookSecret,
			WebhookSecretBytes: webhookSecretBytes,
			ConfirmTokenSecret: confirmSecret,
			AdminEmail:         v.GetString("ADMIN_EMAIL"),
			AdminPassword:      v.GetString("ADMIN_PASSWORD"),
		},
		Scheduler: SchedulerConfig{
			Enabled:               v.GetBool("SCHEDULER_ENABLED"),
			Interval:              interval,
			RegionalOffsetMinutes: v.GetInt("REGIONAL_UTC_OFFSET_MINUTES"),
		},
		SiteURL:     siteURL,
		ShortURL:    shortURL,
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Version:     v.GetString("VERSION"),
	}

	return config, nil
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// Enable ENV override like AVIATO_API_KEY
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent.
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the usual candidate locations so the service can
// be started from the repo root as well as from cmd/prospector.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "prospector"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Aviato.BaseURL == "" {
		cfg.Aviato.BaseURL = "https://data.api.aviato.co"
	}
	if cfg.Aviato.RequestTimeout <= 0 {
		cfg.Aviato.RequestTimeout = 20
	}
	if cfg.Aviato.CompanyPacingMS <= 0 {
		cfg.Aviato.CompanyPacingMS = 2000
	}
	if cfg.Aviato.ContactPacingMS <= 0 {
		cfg.Aviato.ContactPacingMS = 1500
	}
	if cfg.Gateway.Address == "" {
		cfg.Gateway.Address = ":8080"
	}
	if cfg.Pipeline.EnrichLimit <= 0 {
		cfg.Pipeline.EnrichLimit = 50
	}
	if cfg.Pipeline.SearchLimit <= 0 {
		cfg.Pipeline.SearchLimit = 10000
	}
	if cfg.Pipeline.MaxCSVRows <= 0 {
		cfg.Pipeline.MaxCSVRows = 500
	}
	if cfg.Pipeline.SessionTTLMin <= 0 {
		cfg.Pipeline.SessionTTLMin = 30
	}
	if cfg.Roles.TaxonomyPath == "" {
		cfg.Roles.TaxonomyPath = "configs/roles.yaml"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// overrideFromEnv backfills secrets that are commonly supplied as plain
// environment variables rather than through the yaml config.
func overrideFromEnv(cfg *Config) {
	if cfg.Aviato.APIKey == "" {
		cfg.Aviato.APIKey = os.Getenv("AVIATO_API_KEY")
	}
	if cfg.Gateway.SharedSecret == "" {
		cfg.Gateway.SharedSecret = os.Getenv("GATEWAY_SHARED_SECRET")
	}
	if cfg.Gateway.ReplyURL == "" {
		cfg.Gateway.ReplyURL = os.Getenv("GATEWAY_REPLY_URL")
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = os.Getenv("REDIS_ADDRESS")
	}
	if cfg.Redis.Password == "" {
		cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Aviato.APIKey == "" {
		return fmt.Errorf("aviato.api_key is required (set AVIATO_API_KEY)")
	}
	return nil
}

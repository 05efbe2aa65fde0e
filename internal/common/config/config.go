package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Aviato   AviatoConfig   `mapstructure:"aviato"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Roles    RolesConfig    `mapstructure:"roles"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// AviatoConfig holds credentials and tuning for the Aviato data API.
type AviatoConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	RequestTimeout int    `mapstructure:"request_timeout"` // seconds

	// Minimum spacing between consecutive calls, per API surface.
	CompanyPacingMS int `mapstructure:"company_pacing_ms"`
	ContactPacingMS int `mapstructure:"contact_pacing_ms"`
}

func (a AviatoConfig) Timeout() time.Duration {
	if a.RequestTimeout <= 0 {
		return 20 * time.Second
	}
	return time.Duration(a.RequestTimeout) * time.Second
}

func (a AviatoConfig) CompanyPacing() time.Duration {
	if a.CompanyPacingMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(a.CompanyPacingMS) * time.Millisecond
}

func (a AviatoConfig) ContactPacing() time.Duration {
	if a.ContactPacingMS <= 0 {
		return 1500 * time.Millisecond
	}
	return time.Duration(a.ContactPacingMS) * time.Millisecond
}

// GatewayConfig configures the inbound HTTP event gateway and the outbound
// reply webhook the chat front end exposes.
type GatewayConfig struct {
	Address      string `mapstructure:"address"`
	SharedSecret string `mapstructure:"shared_secret"`
	ReplyURL     string `mapstructure:"reply_url"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PipelineConfig holds tuning knobs for the prospecting pipeline.
type PipelineConfig struct {
	EnrichLimit   int `mapstructure:"enrich_limit"`
	SearchLimit   int `mapstructure:"search_limit"`
	MaxCSVRows    int `mapstructure:"max_csv_rows"`
	SessionTTLMin int `mapstructure:"session_ttl_min"`
}

func (p PipelineConfig) SessionTTL() time.Duration {
	if p.SessionTTLMin <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(p.SessionTTLMin) * time.Minute
}

// RolesConfig points at the role taxonomy data file.
type RolesConfig struct {
	TaxonomyPath string `mapstructure:"taxonomy_path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

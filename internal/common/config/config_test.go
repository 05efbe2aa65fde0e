package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)

	assert.Equal(t, "prospector", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "https://data.api.aviato.co", cfg.Aviato.BaseURL)
	assert.Equal(t, ":8080", cfg.Gateway.Address)
	assert.Equal(t, 50, cfg.Pipeline.EnrichLimit)
	assert.Equal(t, 10000, cfg.Pipeline.SearchLimit)
	assert.Equal(t, "configs/roles.yaml", cfg.Roles.TaxonomyPath)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestAviatoConfig_Durations(t *testing.T) {
	var a AviatoConfig
	assert.Equal(t, 20*time.Second, a.Timeout())
	assert.Equal(t, 2*time.Second, a.CompanyPacing())
	assert.Equal(t, 1500*time.Millisecond, a.ContactPacing())

	a = AviatoConfig{RequestTimeout: 5, CompanyPacingMS: 100, ContactPacingMS: 200}
	assert.Equal(t, 5*time.Second, a.Timeout())
	assert.Equal(t, 100*time.Millisecond, a.CompanyPacing())
	assert.Equal(t, 200*time.Millisecond, a.ContactPacing())
}

func TestPipelineConfig_SessionTTL(t *testing.T) {
	var p PipelineConfig
	assert.Equal(t, 30*time.Minute, p.SessionTTL())

	p.SessionTTLMin = 5
	assert.Equal(t, 5*time.Minute, p.SessionTTL())
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, validateConfig(cfg))

	cfg.Aviato.APIKey = "key"
	assert.NoError(t, validateConfig(cfg))
}

package commands

import (
	"fmt"
	"time"

	"cattleprices/internal/components/chrono"
	"cattleprices/internal/components/configutil"
	"cattleprices/internal/components/telemetry"
	"cattleprices/internal/db"
	"cattleprices/internal/scrapers/scot"
)

type Config struct {
	BaseUrl           string           `json:"base_url"`
	TimeoutSeconds    int              `json:"timeout_seconds"`
	RequestsPerSecond float64          `json:"requests_per_second"`
	UserAgent         string           `json:"user_agent"`
	CloudflareBypass  bool             `json:"cloudflare_bypass"`
	DumpDir           string           `json:"dump_dir"`
	Schedule          string           `json:"schedule"`
	Timezone          string           `json:"timezone"`
	Database          db.Config        `json:"database"`
	Telemetry         telemetry.Config `json:"telemetry"`
}

var defaultConfig = Config{
	BaseUrl:  scot.DefaultBaseUrl,
	Schedule: "0 8,14 * * 1-5",
	Timezone: "America/Sao_Paulo",
}

// LoadConfig reads the config file (and its .local override) if present,
// filling anything left unset from the defaults.
func LoadConfig(path string) (Config, error) {
	config, err := configutil.ReadConfigOr(path, defaultConfig)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	err = config.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

func (c Config) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}
	err := chrono.ValidateSpec(c.Schedule)
	if err != nil {
		return fmt.Errorf("schedule %q: %w", c.Schedule, err)
	}
	_, err = time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return nil
}

func (c Config) ClientOptions() scot.Options {
	return scot.Options{
		BaseUrl:           c.BaseUrl,
		Timeout:           time.Duration(c.TimeoutSeconds) * time.Second,
		RequestsPerSecond: c.RequestsPerSecond,
		UserAgent:         c.UserAgent,
		CloudflareBypass:  c.CloudflareBypass,
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"energy-billing/internal/observability/logger"
)

// SimulationConfig bounds generated readings. Zero bounds draw each hour
// inside its tariff band.
type SimulationConfig struct {
	MinKWh float64 `yaml:"min_kwh"`
	MaxKWh float64 `yaml:"max_kwh"`
	Seed   uint64  `yaml:"seed"`
}

// DemoConfig controls fake clients registered at startup.
type DemoConfig struct {
	Clients         int `yaml:"clients"`
	MetersPerClient int `yaml:"meters_per_client"`
	// Year and Month, when set, are simulated for every demo meter.
	Year  int `yaml:"year"`
	Month int `yaml:"month"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Config is the service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Log        logger.Config    `yaml:"log"`
	Simulation SimulationConfig `yaml:"simulation"`
	Demo       DemoConfig       `yaml:"demo"`
}

// Load builds the configuration from defaults and env, then overlays the YAML
// file named by BILLING_CONFIG when set.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Addr:            getenvDefault("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getenvDuration("HTTP_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Log: logger.Config{
			Level:  getenvDefault("LOG_LEVEL", "info"),
			Format: getenvDefault("LOG_FORMAT", "console"),
			Output: getenvDefault("LOG_OUTPUT", "stdout"),
		},
		Simulation: SimulationConfig{
			MinKWh: getenvFloatDefault("SIM_MIN_KWH", 0),
			MaxKWh: getenvFloatDefault("SIM_MAX_KWH", 0),
			Seed:   uint64(getenvIntDefault("SIM_SEED", 0)),
		},
		Demo: DemoConfig{
			Clients:         getenvIntDefault("DEMO_CLIENTS", 0),
			MetersPerClient: getenvIntDefault("DEMO_METERS_PER_CLIENT", 2),
			Year:            getenvIntDefault("DEMO_YEAR", 0),
			Month:           getenvIntDefault("DEMO_MONTH", 0),
		},
	}

	if path := os.Getenv("BILLING_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("config: http addr required"))
	}
	if c.Simulation.MinKWh < 0 {
		errs = append(errs, fmt.Errorf("config: simulation min_kwh must be >= 0, got %v", c.Simulation.MinKWh))
	}
	if c.Simulation.MaxKWh < c.Simulation.MinKWh {
		errs = append(errs, fmt.Errorf("config: simulation max_kwh %v below min_kwh %v", c.Simulation.MaxKWh, c.Simulation.MinKWh))
	}
	if c.Demo.Clients < 0 || c.Demo.MetersPerClient < 0 {
		errs = append(errs, errors.New("config: demo counts must be >= 0"))
	}
	if c.Demo.Month != 0 && (c.Demo.Month < 1 || c.Demo.Month > 12) {
		errs = append(errs, fmt.Errorf("config: demo month must be 1..12, got %d", c.Demo.Month))
	}
	if (c.Demo.Year == 0) != (c.Demo.Month == 0) {
		errs = append(errs, errors.New("config: demo year and month must be set together"))
	}
	return errors.Join(errs...)
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

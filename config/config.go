// Package config loads the settings of the pft tool: a YAML file, a .env file
// and secrets kept in the system keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/folio/watchlist"
	"gopkg.in/yaml.v3"
)

// Default values.
const (
	DefaultAPIBaseURL      = "http://localhost:8080"
	DefaultCurrency        = "USD"
	DefaultCash            = 25000
	DefaultFinnhubBaseURL  = "https://finnhub.io/api/v1"
	DefaultCacheTTL        = 15 * time.Minute
	DefaultServeAddr       = ":8081"
	DefaultRefreshSchedule = "@every 5m"
	DefaultAssistModel     = "gemini-2.5-flash"
)

// Config holds the settings.
type Config struct {
	APIBaseURL  string              `yaml:"api_base_url"`
	Currency    string              `yaml:"currency"`
	DefaultCash float64             `yaml:"default_cash"`
	StateFile   string              `yaml:"state_file"`
	News        News                `yaml:"news"`
	Sectors     map[string][]string `yaml:"sectors"`
	Quote       Quote               `yaml:"quote"`
	Serve       Serve               `yaml:"serve"`
	Assist      Assist              `yaml:"assist"`
}

// News configures the news aggregation.
type News struct {
	FinnhubBaseURL string        `yaml:"finnhub_base_url"`
	WindowDays     int           `yaml:"window_days"`
	PerSymbol      int           `yaml:"per_symbol"`
	PerSector      int           `yaml:"per_sector"`
	Limit          int           `yaml:"limit"`
	MaxConcurrency int           `yaml:"max_concurrency"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	CacheDir       string        `yaml:"cache_dir"`
}

// Quote configures quote parsing.
type Quote struct {
	PricePaths []string `yaml:"price_paths"`
}

// Serve configures the HTTP server.
type Serve struct {
	Addr            string   `yaml:"addr"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	RefreshSchedule string   `yaml:"refresh_schedule"`
}

// Assist configures the assistant.
type Assist struct {
	Model string `yaml:"model"`
}

// Default returns the default configuration.
func Default() *Config {
	sectors := make(map[string][]string, len(watchlist.DefaultKeywords))
	for k, v := range watchlist.DefaultKeywords {
		sectors[k] = append([]string(nil), v...)
	}
	return &Config{
		APIBaseURL:  DefaultAPIBaseURL,
		Currency:    DefaultCurrency,
		DefaultCash: DefaultCash,
		StateFile:   filepath.Join(Dir(), "state.json"),
		News: News{
			FinnhubBaseURL: DefaultFinnhubBaseURL,
			WindowDays:     7,
			PerSymbol:      3,
			PerSector:      3,
			Limit:          12,
			MaxConcurrency: 8,
			CacheTTL:       DefaultCacheTTL,
		},
		Sectors: sectors,
		Serve: Serve{
			Addr:            DefaultServeAddr,
			AllowedOrigins:  []string{"http://localhost:3000"},
			RefreshSchedule: DefaultRefreshSchedule,
		},
		Assist: Assist{Model: DefaultAssistModel},
	}
}

// Dir returns the directory of the configuration files.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "folio")
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string { return filepath.Join(Dir(), "config.yaml") }

// Load reads the configuration at path over the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.Sectors = normalizeSectors(cfg.Sectors)
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("api_base_url is required")
	}
	if strings.TrimSpace(c.Currency) == "" {
		return errors.New("currency is required")
	}
	if c.DefaultCash < 0 {
		return errors.New("default_cash must not be negative")
	}
	if c.News.WindowDays < 0 || c.News.PerSymbol < 0 || c.News.PerSector < 0 || c.News.Limit < 0 {
		return errors.New("news limits must not be negative")
	}
	return nil
}

// normalizeSectors keys the sector keywords by their catalog spelling.
func normalizeSectors(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for name, words := range in {
		n := watchlist.NormalizeSector(name)
		out[n] = append(out[n], words...)
	}
	return out
}

// NewsOptions returns the aggregation options.
func (c *Config) NewsOptions() watchlist.Options {
	return watchlist.Options{
		WindowDays:     c.News.WindowDays,
		PerSymbol:      c.News.PerSymbol,
		PerSector:      c.News.PerSector,
		Limit:          c.News.Limit,
		MaxConcurrency: c.News.MaxConcurrency,
		Keywords:       c.Sectors,
	}
}

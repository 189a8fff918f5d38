// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/flipradar-io/flipradar/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Ebay          EbayConfig          `yaml:"ebay"`
	TCGPlayer     TCGPlayerConfig     `yaml:"tcgplayer"`
	Cache         CacheConfig         `yaml:"cache"`
	Economics     EconomicsConfig     `yaml:"economics"`
	Thresholds    ThresholdsConfig    `yaml:"thresholds"`
	Search        SearchConfig        `yaml:"search"`
	Watches       []WatchConfig       `yaml:"watches"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// EbayConfig defines eBay API settings.
type EbayConfig struct {
	ClientID     string          `yaml:"client_id"`
	ClientSecret string          `yaml:"client_secret"`
	TokenURL     string          `yaml:"token_url"`
	BrowseURL    string          `yaml:"browse_url"`
	Marketplace  string          `yaml:"marketplace"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines eBay API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// TCGPlayerConfig defines TCGplayer API settings. Catalog scans are
// disabled when the key pair is empty.
type TCGPlayerConfig struct {
	PublicKey  string `yaml:"public_key"`
	PrivateKey string `yaml:"private_key"`
	TokenURL   string `yaml:"token_url"`
	APIBase    string `yaml:"api_base"`
}

// Enabled reports whether catalog scans can run.
func (t *TCGPlayerConfig) Enabled() bool {
	return t.PublicKey != "" && t.PrivateKey != ""
}

// CacheConfig defines the listing cache backend.
type CacheConfig struct {
	Backend string        `yaml:"backend"` // memory, redis
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

// RedisConfig defines Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// EconomicsConfig defines the fee, risk, and shipping rate assumptions.
type EconomicsConfig struct {
	EbayFeeRate      float64 `yaml:"ebay_fee_rate"`
	TCGSellerFeeRate float64 `yaml:"tcg_seller_fee_rate"`
	RiskBufferRate   float64 `yaml:"risk_buffer_rate"`
	DefaultShipping  float64 `yaml:"default_shipping"`
}

// ThresholdsConfig defines the opportunity gates.
type ThresholdsConfig struct {
	MinConfidence float64 `yaml:"min_confidence"`
	MinDiscount   float64 `yaml:"min_discount"`
	MinProfit     float64 `yaml:"min_profit"`
	MinROI        float64 `yaml:"min_roi"`
}

// SearchConfig defines listing fetch limits.
type SearchConfig struct {
	LiveLimit int `yaml:"live_limit"`
	SoldLimit int `yaml:"sold_limit"`
}

// WatchConfig defines one saved search run on the scan schedule.
type WatchConfig struct {
	Name  string `yaml:"name"`
	Game  string `yaml:"game"`
	Query string `yaml:"query"`
	Mode  string `yaml:"mode"` // text, catalog
}

// ScheduleConfig defines cron intervals.
type ScheduleConfig struct {
	ScanInterval  time.Duration `yaml:"scan_interval"`
	StaggerOffset time.Duration `yaml:"stagger_offset"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyEbayDefaults(&cfg.Ebay)
	applyTCGPlayerDefaults(&cfg.TCGPlayer)
	applyCacheDefaults(&cfg.Cache)
	applyEconomicsDefaults(&cfg.Economics)
	applyThresholdsDefaults(&cfg.Thresholds)
	applySearchDefaults(&cfg.Search)
	applyScheduleDefaults(&cfg.Schedule)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyEbayDefaults(e *EbayConfig) {
	if e.TokenURL == "" {
		e.TokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	}
	if e.BrowseURL == "" {
		e.BrowseURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	}
	if e.Marketplace == "" {
		e.Marketplace = "EBAY_US"
	}
	applyRateLimitDefaults(&e.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applyTCGPlayerDefaults(t *TCGPlayerConfig) {
	if t.TokenURL == "" {
		t.TokenURL = "https://api.tcgplayer.com/token"
	}
	if t.APIBase == "" {
		t.APIBase = "https://api.tcgplayer.com"
	}
}

func applyCacheDefaults(c *CacheConfig) {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.TTL == 0 {
		c.TTL = 30 * time.Minute
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
}

func applyEconomicsDefaults(e *EconomicsConfig) {
	if e.EbayFeeRate == 0 {
		e.EbayFeeRate = 0.1325
	}
	if e.TCGSellerFeeRate == 0 {
		e.TCGSellerFeeRate = 0.105
	}
	if e.RiskBufferRate == 0 {
		e.RiskBufferRate = 0.07
	}
	if e.DefaultShipping == 0 {
		e.DefaultShipping = 4.50
	}
}

func applyThresholdsDefaults(t *ThresholdsConfig) {
	if t.MinConfidence == 0 {
		t.MinConfidence = 0.55
	}
	if t.MinDiscount == 0 {
		t.MinDiscount = 0.25
	}
	if t.MinProfit == 0 {
		t.MinProfit = 5.00
	}
	if t.MinROI == 0 {
		t.MinROI = 0.10
	}
}

func applySearchDefaults(s *SearchConfig) {
	if s.LiveLimit == 0 {
		s.LiveLimit = 30
	}
	if s.SoldLimit == 0 {
		s.SoldLimit = 60
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.ScanInterval == 0 {
		s.ScanInterval = 15 * time.Minute
	}
	if s.StaggerOffset == 0 {
		s.StaggerOffset = 30 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Ebay.ClientID == "" {
		errs = append(errs, fmt.Errorf("ebay.client_id is required"))
	}
	if cfg.Ebay.ClientSecret == "" {
		errs = append(errs, fmt.Errorf("ebay.client_secret is required"))
	}

	switch cfg.Cache.Backend {
	case "memory":
	case "redis":
		if cfg.Cache.Redis.Addr == "" {
			errs = append(errs, fmt.Errorf("cache.redis.addr is required when backend is redis"))
		}
	default:
		errs = append(
			errs,
			fmt.Errorf("cache.backend must be one of: memory, redis (got %q)", cfg.Cache.Backend),
		)
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(
			errs,
			fmt.Errorf("notifications.discord.webhook_url is required when discord is enabled"),
		)
	}

	for i, w := range cfg.Watches {
		if w.Name == "" {
			errs = append(errs, fmt.Errorf("watches[%d].name is required", i))
		}
		if w.Query == "" {
			errs = append(errs, fmt.Errorf("watches[%d].query is required", i))
		}
		if !domain.Game(w.Game).Valid() {
			errs = append(errs, fmt.Errorf("watches[%d].game must be 'pokemon' or 'mtg' (got %q)", i, w.Game))
		}
		switch w.Mode {
		case "", "text":
		case "catalog":
			if !cfg.TCGPlayer.Enabled() {
				errs = append(
					errs,
					fmt.Errorf("watches[%d] uses catalog mode but tcgplayer keys are not configured", i),
				)
			}
		default:
			errs = append(errs, fmt.Errorf("watches[%d].mode must be 'text' or 'catalog' (got %q)", i, w.Mode))
		}
	}

	return errors.Join(errs...)
}

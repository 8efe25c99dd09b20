// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	domain "github.com/donaldgifford/slash/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Sources       SourcesConfig       `yaml:"sources"`
	Cache         CacheConfig         `yaml:"cache"`
	Alerts        AlertsConfig        `yaml:"alerts"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// SourcesConfig defines the retailer source adapters.
type SourcesConfig struct {
	// Enabled lists the sites to register, in fan-out order. Empty means all
	// sites, with ebay included only when credentials are configured.
	Enabled     []string      `yaml:"enabled"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"user_agent"`
	Concurrency int           `yaml:"concurrency"`
	Walmart     SiteConfig    `yaml:"walmart"`
	Target      TargetConfig  `yaml:"target"`
	Costco      SiteConfig    `yaml:"costco"`
	BestBuy     SiteConfig    `yaml:"bestbuy"`
	Ebay        EbayConfig    `yaml:"ebay"`
}

// SiteConfig defines a scraped retailer endpoint.
type SiteConfig struct {
	SearchURL string `yaml:"search_url"`
}

// TargetConfig defines the Target search API endpoint.
type TargetConfig struct {
	SearchURL string `yaml:"search_url"`
	APIKey    string `yaml:"api_key"`
	StoreID   string `yaml:"store_id"`
}

// EbayConfig defines eBay Browse API settings.
type EbayConfig struct {
	AppID       string `yaml:"app_id"`
	CertID      string `yaml:"cert_id"`
	TokenURL    string `yaml:"token_url"`
	BrowseURL   string `yaml:"browse_url"`
	Marketplace string `yaml:"marketplace"`
	Limit       int    `yaml:"limit"`
}

// maxCacheTTL is memcache's limit for relative expirations.
const maxCacheTTL = 720 * time.Hour

// CacheConfig defines the optional memcache result cache for source adapters.
type CacheConfig struct {
	Servers []string      `yaml:"servers"`
	TTL     time.Duration `yaml:"ttl"` // 0 disables caching
}

// Enabled reports whether the result cache should be wired.
func (c *CacheConfig) Enabled() bool {
	return len(c.Servers) > 0 && c.TTL > 0
}

// AlertsConfig defines the price-drop alert pass.
type AlertsConfig struct {
	Interval   time.Duration `yaml:"interval"`    // default: 180s
	LiveSource string        `yaml:"live_source"` // default: walmart
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	// NotifyOnEmpty sends a notification even when an alert pass found no
	// price drops. Defaults to true.
	NotifyOnEmpty *bool         `yaml:"notify_on_empty"`
	Email         EmailConfig   `yaml:"email"`
	Discord       DiscordConfig `yaml:"discord"`
	Redis         RedisConfig   `yaml:"redis"`
}

// SendEmpty resolves NotifyOnEmpty against its default.
func (n *NotificationsConfig) SendEmpty() bool {
	return n.NotifyOnEmpty == nil || *n.NotifyOnEmpty
}

// EmailConfig defines SMTP delivery settings.
type EmailConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Host         string  `yaml:"host"`
	Port         int     `yaml:"port"`
	Username     string  `yaml:"username"`
	Password     string  `yaml:"password"`
	From         string  `yaml:"from"`
	MaxPerSecond float64 `yaml:"max_per_second"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// RedisConfig defines the Redis stream alert sink.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	DB      int    `yaml:"db"`
	Stream  string `yaml:"stream"`
	MaxLen  int64  `yaml:"max_len"`
}

// TelemetryConfig defines OpenTelemetry tracing export.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. A .env file next to the config file, if
// present, is loaded into the environment first without overriding variables
// that are already set.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML config bytes, expanding ${VAR} references, then applies
// defaults and validates the result.
func Parse(data []byte) (*Config, error) {
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

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applySourcesDefaults(&cfg.Sources)
	applyAlertsDefaults(&cfg.Alerts)
	applyNotificationDefaults(&cfg.Notifications)
	applyTelemetryDefaults(&cfg.Telemetry)
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
		s.WriteTimeout = 60 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applySourcesDefaults(s *SourcesConfig) {
	if len(s.Enabled) == 0 {
		for _, site := range domain.KnownSites() {
			if site == domain.SiteEbay && s.Ebay.AppID == "" {
				continue
			}
			s.Enabled = append(s.Enabled, string(site))
		}
	}
	if s.Timeout == 0 {
		s.Timeout = 15 * time.Second
	}
	if s.Concurrency == 0 {
		s.Concurrency = len(domain.KnownSites())
	}
	if s.Walmart.SearchURL == "" {
		s.Walmart.SearchURL = "https://www.walmart.com/search"
	}
	if s.Target.SearchURL == "" {
		s.Target.SearchURL = "https://redsky.target.com/redsky_aggregations/v1/web/plp_search_v2"
	}
	if s.Target.StoreID == "" {
		s.Target.StoreID = "3991"
	}
	if s.Costco.SearchURL == "" {
		s.Costco.SearchURL = "https://www.costco.com/CatalogSearch"
	}
	if s.BestBuy.SearchURL == "" {
		s.BestBuy.SearchURL = "https://www.bestbuy.com/site/searchpage.jsp"
	}
	if s.Ebay.TokenURL == "" {
		s.Ebay.TokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	}
	if s.Ebay.BrowseURL == "" {
		s.Ebay.BrowseURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	}
	if s.Ebay.Marketplace == "" {
		s.Ebay.Marketplace = "EBAY_US"
	}
	if s.Ebay.Limit == 0 {
		s.Ebay.Limit = 50
	}
}

func applyAlertsDefaults(a *AlertsConfig) {
	if a.Interval == 0 {
		a.Interval = 180 * time.Second
	}
	if a.LiveSource == "" {
		a.LiveSource = string(domain.SiteWalmart)
	}
}

func applyNotificationDefaults(n *NotificationsConfig) {
	if n.Email.Port == 0 {
		n.Email.Port = 587
	}
	if n.Email.MaxPerSecond == 0 {
		n.Email.MaxPerSecond = 1
	}
	if n.Redis.Stream == "" {
		n.Redis.Stream = "slash:alerts"
	}
	if n.Redis.MaxLen == 0 {
		n.Redis.MaxLen = 10000
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "slash"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1
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

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	for _, site := range cfg.Sources.Enabled {
		if !domain.IsKnownSite(site) {
			errs = append(errs, fmt.Errorf("sources.enabled: unknown site %q", site))
		}
	}
	if slices.Contains(cfg.Sources.Enabled, string(domain.SiteEbay)) &&
		(cfg.Sources.Ebay.AppID == "" || cfg.Sources.Ebay.CertID == "") {
		errs = append(errs, fmt.Errorf("sources.ebay.app_id and cert_id are required when ebay is enabled"))
	}
	if cfg.Sources.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("sources.concurrency must not be negative"))
	}

	if !slices.Contains(cfg.Sources.Enabled, cfg.Alerts.LiveSource) {
		errs = append(errs, fmt.Errorf(
			"alerts.live_source %q must be one of the enabled sources",
			cfg.Alerts.LiveSource,
		))
	}
	if cfg.Alerts.Interval < time.Second {
		errs = append(errs, fmt.Errorf("alerts.interval must be at least 1s (got %s)", cfg.Alerts.Interval))
	}

	switch ttl := cfg.Cache.TTL; {
	case ttl < 0:
		errs = append(errs, fmt.Errorf("cache.ttl must not be negative"))
	case ttl > 0 && ttl < time.Second:
		errs = append(errs, fmt.Errorf("cache.ttl must be 0 or at least 1s (got %s)", ttl))
	case ttl > maxCacheTTL:
		errs = append(errs, fmt.Errorf("cache.ttl must not exceed %s (got %s)", maxCacheTTL, ttl))
	}

	errs = append(errs, validateNotifications(&cfg.Notifications)...)

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		errs = append(errs, fmt.Errorf("telemetry.endpoint is required when telemetry is enabled"))
	}
	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_ratio must be within [0, 1]"))
	}

	return errors.Join(errs...)
}

func validateNotifications(n *NotificationsConfig) []error {
	var errs []error

	if n.Email.Enabled {
		if n.Email.Host == "" {
			errs = append(errs, fmt.Errorf("notifications.email.host is required when email is enabled"))
		}
		if n.Email.From == "" {
			errs = append(errs, fmt.Errorf("notifications.email.from is required when email is enabled"))
		}
		if n.Email.MaxPerSecond < 0 {
			errs = append(errs, fmt.Errorf("notifications.email.max_per_second must not be negative"))
		}
	}
	if n.Discord.Enabled && n.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("notifications.discord.webhook_url is required when discord is enabled"))
	}
	if n.Redis.Enabled && n.Redis.Addr == "" {
		errs = append(errs, fmt.Errorf("notifications.redis.addr is required when redis is enabled"))
	}

	return errs
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the storefront sync service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Contentful ContentfulConfig `yaml:"contentful"`
	Algolia    AlgoliaConfig    `yaml:"algolia"`
	Sync       SyncConfig       `yaml:"sync"`
	Cache      CacheConfig      `yaml:"cache"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds the shared secret protecting the trigger surface.
type AuthConfig struct {
	WebhookSecret string `yaml:"webhook_secret"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int    `yaml:"port"`
	BaseURL         string `yaml:"base_url"` // self URL for the webhook's loopback sync call
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
}

// ContentfulConfig holds content source credentials and endpoints.
type ContentfulConfig struct {
	SpaceID     string `yaml:"space_id"`
	AccessToken string `yaml:"access_token"`
	Environment string `yaml:"environment"`
	BaseURL     string `yaml:"base_url"`
}

// Configured reports whether the content source credentials are present.
func (c ContentfulConfig) Configured() bool {
	return c.SpaceID != "" && c.AccessToken != ""
}

// AlgoliaConfig holds search index credentials and the index naming prefix.
type AlgoliaConfig struct {
	AppID       string `yaml:"app_id"`
	AdminKey    string `yaml:"admin_key"`
	IndexPrefix string `yaml:"index_prefix"`
}

// Configured reports whether the search index credentials are present.
func (c AlgoliaConfig) Configured() bool {
	return c.AppID != "" && c.AdminKey != ""
}

// LocaleConfig maps a public locale code to the content source locale.
type LocaleConfig struct {
	Code string `yaml:"code"`
	CMS  string `yaml:"cms_locale"`
}

// SyncConfig holds sync pipeline settings.
type SyncConfig struct {
	ContentType  string         `yaml:"content_type"`
	PageSize     int            `yaml:"page_size"`
	IncludeDepth int            `yaml:"include_depth"`
	Locales      []LocaleConfig `yaml:"locales"`
}

// CacheConfig holds the page cache connection settings. An empty addrs list
// disables the cache backend (invalidation becomes a no-op).
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 15
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// A full catalog sync runs inside one request on the pull endpoint.
		c.HTTP.WriteTimeoutSec = 180
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.RateLimitPerMin <= 0 {
		c.HTTP.RateLimitPerMin = 100
	}
	if c.HTTP.BaseURL == "" && c.HTTP.Port > 0 {
		c.HTTP.BaseURL = fmt.Sprintf("http://127.0.0.1:%d", c.HTTP.Port)
	}
	if c.Contentful.Environment == "" {
		c.Contentful.Environment = "master"
	}
	if c.Contentful.BaseURL == "" {
		c.Contentful.BaseURL = "https://cdn.contentful.com"
	}
	if c.Algolia.IndexPrefix == "" {
		c.Algolia.IndexPrefix = "products"
	}
	if c.Sync.ContentType == "" {
		c.Sync.ContentType = "product"
	}
	if c.Sync.PageSize <= 0 {
		c.Sync.PageSize = 100
	}
	if c.Sync.IncludeDepth <= 0 {
		c.Sync.IncludeDepth = 2
	}
	if len(c.Sync.Locales) == 0 {
		c.Sync.Locales = []LocaleConfig{
			{Code: "en", CMS: "en-US"},
			{Code: "tr", CMS: "tr-TR"},
		}
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "storefront:page:"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness. Upstream credentials are
// deliberately not required here: their absence is reported per-request as a
// configuration error by the trigger surface.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Sync.PageSize > 1000 {
		return fmt.Errorf("sync.page_size must not exceed 1000, got %d", c.Sync.PageSize)
	}
	if len(c.Sync.Locales) != 2 {
		return fmt.Errorf("sync.locales must list exactly two locales (primary, secondary), got %d", len(c.Sync.Locales))
	}
	for i, l := range c.Sync.Locales {
		if l.Code == "" || l.CMS == "" {
			return fmt.Errorf("sync.locales[%d] requires both code and cms_locale", i)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

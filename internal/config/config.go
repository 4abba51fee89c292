package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appName    = "popcorn"
	envPrefix  = "POPCORN"
	configName = "config"
	configType = "yaml"
)

// Config holds all application configuration
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Images  ImagesConfig  `mapstructure:"images"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Browse  BrowseConfig  `mapstructure:"browse"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds remote API configuration
type TMDBConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"` // v4 read access token, sent as a bearer token
	Timeout time.Duration `mapstructure:"timeout"`
}

// ImagesConfig holds image CDN settings
type ImagesConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	PosterSize   string `mapstructure:"poster_size"`
	BackdropSize string `mapstructure:"backdrop_size"`
}

// CacheConfig holds local cache settings
type CacheConfig struct {
	Dir           string `mapstructure:"dir"`
	RetentionDays int    `mapstructure:"retention_days"`
	MaxMovies     int    `mapstructure:"max_movies"`
}

// BrowseConfig holds list behaviour settings
type BrowseConfig struct {
	PageSize       int           `mapstructure:"page_size"`
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL: "https://api.themoviedb.org",
			Timeout: 30 * time.Second,
		},
		Images: ImagesConfig{
			BaseURL:      "https://image.tmdb.org/t/p",
			PosterSize:   "w500",
			BackdropSize: "w780",
		},
		Cache: CacheConfig{
			Dir:           defaultCachePath(),
			RetentionDays: 30,
			MaxMovies:     500,
		},
		Browse: BrowseConfig{
			PageSize:       20,
			SearchDebounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// DefaultConfigPath returns the default config file path for the current OS
func DefaultConfigPath() string {
	return filepath.Join(defaultConfigDir(), configName+"."+configType)
}

func defaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

func defaultDataDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

func defaultCachePath() string {
	return filepath.Join(defaultDataDir(), "cache")
}

func defaultLogPath() string {
	return filepath.Join(defaultDataDir(), appName+".log")
}

// Load reads configuration from path, or from the default location when path
// is empty. A missing default file is not an error; defaults are used.
// Environment variables (POPCORN_TMDB_TOKEN, POPCORN_CACHE_DIR, ...) override the file.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(defaultConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Cache.Dir = ExpandPath(cfg.Cache.Dir)
	cfg.Logging.File = ExpandPath(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, or to the default location when path is
// empty. It returns the file written.
func Save(cfg *Config, path string) (string, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	setValues(cfg, v.Set)

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	// The file holds an access token.
	if err := os.Chmod(path, 0600); err != nil {
		return "", fmt.Errorf("failed to restrict config file: %w", err)
	}
	return path, nil
}

// IsConfigured returns true if an API token is set
func (c *Config) IsConfigured() bool {
	return strings.TrimSpace(c.TMDB.Token) != ""
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if err := validateURL("tmdb.base_url", c.TMDB.BaseURL); err != nil {
		return err
	}
	if err := validateURL("images.base_url", c.Images.BaseURL); err != nil {
		return err
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive, got %s", c.TMDB.Timeout)
	}
	if c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required")
	}
	if c.Cache.RetentionDays <= 0 {
		return fmt.Errorf("cache.retention_days must be positive, got %d", c.Cache.RetentionDays)
	}
	if c.Cache.MaxMovies <= 0 {
		return fmt.Errorf("cache.max_movies must be positive, got %d", c.Cache.MaxMovies)
	}
	if c.Browse.PageSize <= 0 {
		return fmt.Errorf("browse.page_size must be positive, got %d", c.Browse.PageSize)
	}
	if c.Browse.SearchDebounce <= 0 {
		return fmt.Errorf("browse.search_debounce must be positive, got %s", c.Browse.SearchDebounce)
	}

	validLevels := map[string]bool{
		"DEBUG":   true,
		"INFO":    true,
		"WARN":    true,
		"WARNING": true,
		"ERROR":   true,
	}
	if !validLevels[strings.ToUpper(c.Logging.Level)] {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func newViper() *viper.Viper {
	v := viper.New()
	setValues(DefaultConfig(), v.SetDefault)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setValues writes every key individually so names stay snake_case.
func setValues(cfg *Config, set func(key string, value any)) {
	set("tmdb.base_url", cfg.TMDB.BaseURL)
	set("tmdb.token", cfg.TMDB.Token)
	set("tmdb.timeout", cfg.TMDB.Timeout.String())

	set("images.base_url", cfg.Images.BaseURL)
	set("images.poster_size", cfg.Images.PosterSize)
	set("images.backdrop_size", cfg.Images.BackdropSize)

	set("cache.dir", cfg.Cache.Dir)
	set("cache.retention_days", cfg.Cache.RetentionDays)
	set("cache.max_movies", cfg.Cache.MaxMovies)

	set("browse.page_size", cfg.Browse.PageSize)
	set("browse.search_debounce", cfg.Browse.SearchDebounce.String())

	set("logging.file", cfg.Logging.File)
	set("logging.level", cfg.Logging.Level)
}

func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https", key)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s: missing host", key)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const appName = "reel"

// Config is the root application configuration
type Config struct {
	TMDB     TMDBConfig     `mapstructure:"tmdb" yaml:"tmdb"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	UI       UIConfig       `mapstructure:"ui" yaml:"ui"`
	Advanced AdvancedConfig `mapstructure:"advanced" yaml:"advanced"`
}

// TMDBConfig configures the catalog provider
type TMDBConfig struct {
	APIKey       string        `mapstructure:"api_key" yaml:"api_key"`
	AccessToken  string        `mapstructure:"access_token" yaml:"access_token"` // v4 read access token, sent as a bearer token
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	ImageBaseURL string        `mapstructure:"image_base_url" yaml:"image_base_url" validate:"required,url"`
	Language     string        `mapstructure:"language" yaml:"language"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"min=1s"`
	MaxRetries   int           `mapstructure:"max_retries" yaml:"max_retries" validate:"min=0,max=10"`
}

// CacheConfig configures the in-memory response cache
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"min=0s"`
}

// LoggingConfig configures the application logger
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn warning error"`
	Format     string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size" validate:"min=1"` // megabytes
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups" validate:"min=0"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age" validate:"min=0"` // days
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
	Color      bool   `mapstructure:"color" yaml:"color"`
}

// DatabaseConfig configures the local SQLite store
type DatabaseConfig struct {
	Path           string `mapstructure:"path" yaml:"path" validate:"required"`
	MaxConnections int    `mapstructure:"max_connections" yaml:"max_connections" validate:"min=1"`
	WALMode        bool   `mapstructure:"wal_mode" yaml:"wal_mode"`
	AutoVacuum     bool   `mapstructure:"auto_vacuum" yaml:"auto_vacuum"`
}

// UIConfig configures the terminal interface
type UIConfig struct {
	RememberGenres  bool   `mapstructure:"remember_genres" yaml:"remember_genres"`
	ScrollThreshold int    `mapstructure:"scroll_threshold" yaml:"scroll_threshold" validate:"min=1"` // rows from the bottom that trigger the next page
	MovieURL        string `mapstructure:"movie_url" yaml:"movie_url" validate:"required"`            // printf pattern, %d is the movie id
}

// AdvancedConfig holds debugging and platform switches
type AdvancedConfig struct {
	Debug            bool   `mapstructure:"debug" yaml:"debug"`
	ClipboardCommand string `mapstructure:"clipboard_command" yaml:"clipboard_command"` // used when the system clipboard is unreachable
}

// ErrMissingCredentials is returned when neither an API key nor an access token is configured
var ErrMissingCredentials = errors.New("tmdb credentials missing: set tmdb.api_key or tmdb.access_token (or REEL_TMDB_API_KEY)")

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			Language:     "en-US",
			Timeout:      15 * time.Second,
			MaxRetries:   2,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			File:       filepath.Join(getStateDir(), appName, appName+".log"),
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   false,
			Color:      true,
		},
		Database: DatabaseConfig{
			Path:           filepath.Join(GetDataDir(), appName+".db"),
			MaxConnections: 4,
			WALMode:        true,
			AutoVacuum:     true,
		},
		UI: UIConfig{
			RememberGenres:  true,
			ScrollThreshold: 3,
			MovieURL:        "https://www.themoviedb.org/movie/%d",
		},
	}
}

// Load reads configuration from cfgFile (or the default location), the
// environment and built-in defaults. The returned viper instance can be used
// to watch the file for changes.
func Load(cfgFile string) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(GetConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, v, nil
}

// setDefaults registers every key so that env overrides and Unmarshal see them
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("tmdb.api_key", d.TMDB.APIKey)
	v.SetDefault("tmdb.access_token", d.TMDB.AccessToken)
	v.SetDefault("tmdb.base_url", d.TMDB.BaseURL)
	v.SetDefault("tmdb.image_base_url", d.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.language", d.TMDB.Language)
	v.SetDefault("tmdb.timeout", d.TMDB.Timeout)
	v.SetDefault("tmdb.max_retries", d.TMDB.MaxRetries)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size", d.Logging.MaxSize)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age", d.Logging.MaxAge)
	v.SetDefault("logging.compress", d.Logging.Compress)
	v.SetDefault("logging.color", d.Logging.Color)

	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.max_connections", d.Database.MaxConnections)
	v.SetDefault("database.wal_mode", d.Database.WALMode)
	v.SetDefault("database.auto_vacuum", d.Database.AutoVacuum)

	v.SetDefault("ui.remember_genres", d.UI.RememberGenres)
	v.SetDefault("ui.scroll_threshold", d.UI.ScrollThreshold)
	v.SetDefault("ui.movie_url", d.UI.MovieURL)

	v.SetDefault("advanced.debug", d.Advanced.Debug)
	v.SetDefault("advanced.clipboard_command", d.Advanced.ClipboardCommand)
}

// Validate checks field constraints
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// RequireCredentials reports whether the catalog can be queried
func (c *Config) RequireCredentials() error {
	if strings.TrimSpace(c.TMDB.APIKey) == "" && strings.TrimSpace(c.TMDB.AccessToken) == "" {
		return ErrMissingCredentials
	}
	return nil
}

// SaveDefaultConfig writes the default configuration as YAML to path
func SaveDefaultConfig(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	header := "# reel configuration\n# Get an API key at https://www.themoviedb.org/settings/api\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// InitializeDirs creates the config, data and state directories
func InitializeDirs() error {
	for _, dir := range []string{GetConfigDir(), GetDataDir(), filepath.Join(getStateDir(), appName)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// GetConfigDir returns $XDG_CONFIG_HOME/reel
func GetConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(homeDir(), ".config", appName)
}

// GetDataDir returns $XDG_DATA_HOME/reel
func GetDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(homeDir(), ".local", "share", appName)
}

func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".local", "state")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

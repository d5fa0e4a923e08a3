package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Favorites storage backends
const (
	BackendBolt   = "bolt"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Search matching modes
const (
	SearchSubstring   = "substring"
	SearchSubsequence = "subsequence"
	SearchRanked      = "ranked"
)

// Config holds all application configuration
type Config struct {
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Favorites FavoritesConfig `mapstructure:"favorites"`
	Search    SearchConfig    `mapstructure:"search"`
	Paging    PagingConfig    `mapstructure:"paging"`
	UI        UIConfig        `mapstructure:"ui"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// CatalogConfig selects where the movie catalog comes from.
// URL wins over File; with neither set the built-in sample catalog is used.
type CatalogConfig struct {
	URL        string        `mapstructure:"url" validate:"omitempty,url"`
	File       string        `mapstructure:"file"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Duplicates string        `mapstructure:"duplicates" validate:"omitempty,oneof=first last"`
}

// FavoritesConfig holds favorites persistence configuration
type FavoritesConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=bolt badger memory"`
	Path    string `mapstructure:"path"` // File (bolt) or directory (badger)
}

// SearchConfig holds search configuration
type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`
	Mode     string        `mapstructure:"mode" validate:"oneof=substring subsequence ranked"`
}

// PagingConfig holds pagination configuration
type PagingConfig struct {
	PageSize         int `mapstructure:"page_size" validate:"gt=0"`
	PrefetchDistance int `mapstructure:"prefetch_distance" validate:"gte=0"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme       string `mapstructure:"theme"`
	ShowRatings bool   `mapstructure:"show_ratings"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Timeout:    30 * time.Second,
			Duplicates: "last",
		},
		Favorites: FavoritesConfig{
			Backend: BackendBolt,
			Path:    filepath.Join(defaultDataPath(), "favorites.db"),
		},
		Search: SearchConfig{
			Debounce: 300 * time.Millisecond,
			Mode:     SearchSubstring,
		},
		Paging: PagingConfig{
			PageSize:         10,
			PrefetchDistance: 3,
		},
		UI: UIConfig{
			Theme:       "default",
			ShowRatings: true,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "cineverse.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "cineverse")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cineverse")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cineverse")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "cineverse")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultConfigPath())
	v.AddConfigPath(".")
	return Load(v)
}

// Load reads configuration through v. Defaults are registered first so
// every key can be overridden by CINEVERSE_* environment variables
// (e.g. CINEVERSE_CATALOG_URL, CINEVERSE_PAGING_PAGE_SIZE).
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("CINEVERSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("catalog.url", d.Catalog.URL)
	v.SetDefault("catalog.file", d.Catalog.File)
	v.SetDefault("catalog.timeout", d.Catalog.Timeout)
	v.SetDefault("catalog.duplicates", d.Catalog.Duplicates)

	v.SetDefault("favorites.backend", d.Favorites.Backend)
	v.SetDefault("favorites.path", d.Favorites.Path)

	v.SetDefault("search.debounce", d.Search.Debounce)
	v.SetDefault("search.mode", d.Search.Mode)

	v.SetDefault("paging.page_size", d.Paging.PageSize)
	v.SetDefault("paging.prefetch_distance", d.Paging.PrefetchDistance)

	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.show_ratings", d.UI.ShowRatings)

	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.level", d.Logging.Level)
}

var validate = newValidator()

// newValidator reports field errors by their config key names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate rejects values the rest of the application cannot work with.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	key := strings.TrimPrefix(fe.Namespace(), "Config.")
	if fe.Param() != "" {
		return fmt.Errorf("%s: must satisfy %s=%s, got %v", key, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Errorf("%s: must satisfy %s, got %v", key, fe.Tag(), fe.Value())
}

// SaveConfig writes cfg as YAML to path, creating the directory.
// An empty path means the default config location.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("catalog.url", cfg.Catalog.URL)
	v.Set("catalog.file", cfg.Catalog.File)
	v.Set("catalog.timeout", cfg.Catalog.Timeout.String())
	v.Set("catalog.duplicates", cfg.Catalog.Duplicates)

	v.Set("favorites.backend", cfg.Favorites.Backend)
	v.Set("favorites.path", cfg.Favorites.Path)

	v.Set("search.debounce", cfg.Search.Debounce.String())
	v.Set("search.mode", cfg.Search.Mode)

	v.Set("paging.page_size", cfg.Paging.PageSize)
	v.Set("paging.prefetch_distance", cfg.Paging.PrefetchDistance)

	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.show_ratings", cfg.UI.ShowRatings)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ExpandHome replaces a leading "~" in path with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

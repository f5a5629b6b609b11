// Package config loads portfolio settings from defaults, an optional YAML
// file and PORTFOLIO_* environment variables, in increasing priority.
//
// Nested keys map to env vars by upper-casing and replacing "." with "_":
//
//	contentful.access_token → PORTFOLIO_CONTENTFUL_ACCESS_TOKEN
//	preview.secret_hash     → PORTFOLIO_PREVIEW_SECRET_HASH
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cobbinma/portfolio/internal/content"
	"github.com/cobbinma/portfolio/internal/content/contentful"
	"github.com/cobbinma/portfolio/internal/logger"
)

const envPrefix = "PORTFOLIO"

// Content sources.
const (
	SourceContentful = "contentful"
	SourceSQLite     = "sqlite"
	SourceMarkdown   = "markdown"
)

// Entry ids of the pages in the production Contentful space.
const (
	DefaultHomeID     = "12oQYUyzJOGG8He6aPUMJN"
	DefaultProjectsID = "72g4Oy2ellnR26VCunqKFX"
)

var (
	ErrConfigNotFound  = errors.New("config: file not found")
	ErrInvalidPort     = errors.New("config: port must be between 1 and 65535")
	ErrUnknownSource   = errors.New("config: unknown source")
	ErrMissingPageID   = errors.New("config: page id is required")
	ErrMissingSpace    = errors.New("config: contentful.space_id is required")
	ErrMissingToken    = errors.New("config: contentful.access_token is required")
	ErrInvalidInclude  = errors.New("config: include out of range")
	ErrMissingDBPath   = errors.New("config: db_path is required")
	ErrMissingDir      = errors.New("config: content_dir is required")
	ErrInvalidLogLevel = errors.New("config: invalid log settings")
)

// Config is the full application configuration.
type Config struct {
	Port       int              `mapstructure:"port"`
	Log        LogConfig        `mapstructure:"log"`
	Source     string           `mapstructure:"source"`
	Pages      PagesConfig      `mapstructure:"pages"`
	Include    int              `mapstructure:"include"`
	Contentful ContentfulConfig `mapstructure:"contentful"`
	DBPath     string           `mapstructure:"db_path"`
	ContentDir string           `mapstructure:"content_dir"`
	Preview    PreviewConfig    `mapstructure:"preview"`

	// File is the config file that was read, or "" when none was found.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type PagesConfig struct {
	Home     string `mapstructure:"home"`
	Projects string `mapstructure:"projects"`
}

type ContentfulConfig struct {
	SpaceID      string        `mapstructure:"space_id"`
	AccessToken  string        `mapstructure:"access_token"`
	PreviewToken string        `mapstructure:"preview_token"`
	Environment  string        `mapstructure:"environment"`
	BaseURL      string        `mapstructure:"base_url"`
	PreviewURL   string        `mapstructure:"preview_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// PreviewConfig enables preview mode when both SigningKey and SecretHash are
// set. SecretHash is a bcrypt hash, as printed by `portfolio hash-secret`.
type PreviewConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	SecretHash string        `mapstructure:"secret_hash"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// Enabled reports whether preview mode is configured.
func (p PreviewConfig) Enabled() bool {
	return p.SigningKey != "" && p.SecretHash != ""
}

// Load reads the configuration. With an explicit path the file must exist;
// without one, ./portfolio.yaml is read if present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("portfolio")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		switch {
		case missing && path != "":
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		case missing:
			// No ./portfolio.yaml: defaults and env only.
		default:
			return nil, fmt.Errorf("config: reading %s: %w", v.ConfigFileUsed(), err)
		}
	} else {
		cfg.File = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key. AutomaticEnv only overrides keys viper
// knows about, so keys without a useful default are registered empty.
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logger.FormatText)
	v.SetDefault("source", SourceContentful)
	v.SetDefault("pages.home", DefaultHomeID)
	v.SetDefault("pages.projects", DefaultProjectsID)
	v.SetDefault("include", content.DefaultInclude)

	v.SetDefault("contentful.space_id", "")
	v.SetDefault("contentful.access_token", "")
	v.SetDefault("contentful.preview_token", "")
	v.SetDefault("contentful.environment", contentful.DefaultEnvironment)
	v.SetDefault("contentful.base_url", contentful.DeliveryURL)
	v.SetDefault("contentful.preview_url", contentful.PreviewURL)
	v.SetDefault("contentful.timeout", contentful.DefaultTimeout)

	v.SetDefault("db_path", "data/portfolio.db")
	v.SetDefault("content_dir", "content")

	v.SetDefault("preview.signing_key", "")
	v.SetDefault("preview.secret_hash", "")
	v.SetDefault("preview.ttl", time.Hour)
}

// Validate checks the settings the selected source needs.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogLevel, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("%w: format %q", ErrInvalidLogLevel, c.Log.Format)
	}
	if c.Pages.Home == "" {
		return fmt.Errorf("%w: pages.home", ErrMissingPageID)
	}
	if c.Pages.Projects == "" {
		return fmt.Errorf("%w: pages.projects", ErrMissingPageID)
	}
	if c.Include < 0 || c.Include > content.MaxInclude {
		return fmt.Errorf("%w: %d (max %d)", ErrInvalidInclude, c.Include, content.MaxInclude)
	}

	switch c.Source {
	case SourceContentful:
		if c.Contentful.SpaceID == "" {
			return ErrMissingSpace
		}
		if c.Contentful.AccessToken == "" {
			return ErrMissingToken
		}
	case SourceSQLite:
		if c.DBPath == "" {
			return ErrMissingDBPath
		}
	case SourceMarkdown:
		if c.ContentDir == "" {
			return ErrMissingDir
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Source)
	}
	return nil
}

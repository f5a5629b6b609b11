package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, SourceContentful, cfg.Source)
	assert.Equal(t, DefaultHomeID, cfg.Pages.Home)
	assert.Equal(t, DefaultProjectsID, cfg.Pages.Projects)
	assert.Equal(t, 2, cfg.Include)
	assert.Equal(t, "master", cfg.Contentful.Environment)
	assert.Equal(t, "https://cdn.contentful.com", cfg.Contentful.BaseURL)
	assert.Equal(t, "https://preview.contentful.com", cfg.Contentful.PreviewURL)
	assert.Equal(t, 30*time.Second, cfg.Contentful.Timeout)
	assert.Equal(t, "data/portfolio.db", cfg.DBPath)
	assert.Equal(t, "content", cfg.ContentDir)
	assert.Equal(t, time.Hour, cfg.Preview.TTL)
	assert.False(t, cfg.Preview.Enabled())
	assert.Empty(t, cfg.File)
}

func TestLoad_FileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portfolio.yaml"), []byte("port: 9000\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.NotEmpty(t, cfg.File)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
port: 3000
source: markdown
content_dir: ./site
log:
  level: debug
  format: json
pages:
  home: home
  projects: projects
contentful:
  timeout: 5s
preview:
  signing_key: 0123456789abcdef
  secret_hash: $2a$10$abc
  ttl: 15m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, SourceMarkdown, cfg.Source)
	assert.Equal(t, "./site", cfg.ContentDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "home", cfg.Pages.Home)
	assert.Equal(t, 5*time.Second, cfg.Contentful.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.Preview.TTL)
	assert.True(t, cfg.Preview.Enabled())
	// Keys the file leaves out keep their defaults.
	assert.Equal(t, "master", cfg.Contentful.Environment)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "port: 3000\ncontentful:\n  space_id: from-file\n")
	t.Setenv("PORTFOLIO_PORT", "4000")
	t.Setenv("PORTFOLIO_CONTENTFUL_SPACE_ID", "from-env")
	t.Setenv("PORTFOLIO_CONTENTFUL_ACCESS_TOKEN", "token")
	t.Setenv("PORTFOLIO_PREVIEW_TTL", "10m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "from-env", cfg.Contentful.SpaceID)
	assert.Equal(t, "token", cfg.Contentful.AccessToken)
	assert.Equal(t, 10*time.Minute, cfg.Preview.TTL)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)

	_, err = Load(writeConfig(t, "port: [not, a, number\n"))
	assert.Error(t, err)
}

func validConfig() Config {
	return Config{
		Port:       8080,
		Log:        LogConfig{Level: "info", Format: "text"},
		Source:     SourceContentful,
		Pages:      PagesConfig{Home: DefaultHomeID, Projects: DefaultProjectsID},
		Include:    2,
		Contentful: ContentfulConfig{SpaceID: "space", AccessToken: "token"},
		DBPath:     "data/portfolio.db",
		ContentDir: "content",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid contentful", func(*Config) {}, nil},
		{"valid sqlite without contentful", func(c *Config) {
			c.Source = SourceSQLite
			c.Contentful = ContentfulConfig{}
		}, nil},
		{"valid markdown", func(c *Config) { c.Source = SourceMarkdown }, nil},
		{"port zero", func(c *Config) { c.Port = 0 }, ErrInvalidPort},
		{"port too large", func(c *Config) { c.Port = 70000 }, ErrInvalidPort},
		{"unknown level", func(c *Config) { c.Log.Level = "chatty" }, ErrInvalidLogLevel},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, ErrInvalidLogLevel},
		{"missing home", func(c *Config) { c.Pages.Home = "" }, ErrMissingPageID},
		{"missing projects", func(c *Config) { c.Pages.Projects = "" }, ErrMissingPageID},
		{"negative include", func(c *Config) { c.Include = -1 }, ErrInvalidInclude},
		{"include too deep", func(c *Config) { c.Include = 11 }, ErrInvalidInclude},
		{"missing space", func(c *Config) { c.Contentful.SpaceID = "" }, ErrMissingSpace},
		{"missing token", func(c *Config) { c.Contentful.AccessToken = "" }, ErrMissingToken},
		{"sqlite without path", func(c *Config) { c.Source = SourceSQLite; c.DBPath = "" }, ErrMissingDBPath},
		{"markdown without dir", func(c *Config) { c.Source = SourceMarkdown; c.ContentDir = "" }, ErrMissingDir},
		{"unknown source", func(c *Config) { c.Source = "wordpress" }, ErrUnknownSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

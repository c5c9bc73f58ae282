package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
)

// Load reads, expands, normalizes, defaults and validates a configuration file.
// A missing file at the default location is not an error: the built-in defaults
// are used instead, so `contentfeed serve` works against ./data out of the box.
func Load(configPath string, explicit bool) (*Config, error) {
	if files, err := loadEnvFiles(); err != nil {
		slog.Warn("Failed to load .env file", "error", err)
	} else if len(files) > 0 {
		slog.Debug("Loaded environment files", "files", files)
	}

	var cfg Config
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		cfg.Version = CurrentVersion
	case err != nil:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("file", configPath).
			Build()
	default:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config file").
				Fatal().
				WithContext("file", configPath).
				Build()
		}
		if cfg.Version != CurrentVersion {
			return nil, ferrors.ConfigError(fmt.Sprintf("unsupported configuration version: %q (expected %s)", cfg.Version, CurrentVersion)).
				WithContext("file", configPath).
				Build()
		}
	}

	return finalize(&cfg)
}

// Default returns a fully defaulted configuration without reading any file.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	applyEnvOverrides(cfg)
	_, _ = NormalizeConfig(cfg)
	_ = NewDefaultApplier().ApplyDefaults(cfg)
	return cfg
}

func finalize(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)

	nres, err := NormalizeConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	for _, w := range nres.Warnings {
		slog.Warn("Config normalization", "detail", w)
	}

	if err := NewDefaultApplier().ApplyDefaults(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DataPath joins a dataset file name onto the data directory.
func (c *Config) DataPath(name string) string {
	return filepath.Join(c.Data.Dir, name)
}

// LogoPath returns the path to the brand logo asset.
func (c *Config) LogoPath() string {
	return filepath.Join(c.Data.AssetsDir, c.Data.Logo)
}

const exampleConfig = `# contentfeed configuration
version: "1.0"

site:
  title: "SQRT Labs Blog"
  description: "Engineering notes, product insights, and Web3 development guides from SQRT Labs team."
  # Overridden by the SITE_URL environment variable when set.
  base_url: "https://sqrtlabs.com"
  language: en

data:
  dir: ./data
  blog_file: blog-posts.json
  projects_file: projects.json
  team_file: team.json
  assets_dir: ./public
  logo: sqrtlabs-icon.png

http:
  port: 8080
  read_timeout: 15s
  write_timeout: 30s
  shutdown_timeout: 10s

sitemap:
  static_routes:
    - { path: "/", changefreq: weekly, priority: 1.0 }
    - { path: "/about", changefreq: monthly, priority: 0.8 }
    - { path: "/projects", changefreq: weekly, priority: 0.9 }
    - { path: "/blog", changefreq: weekly, priority: 0.8 }
  dynamic_changefreq: monthly
  dynamic_priority: 0.7

pagination:
  blog_page_size: 6

generate:
  output_dir: ./out
  concurrency: 4
  # schedule: "0 * * * *"

preview:
  debounce: 300ms
  livereload: true

monitoring:
  metrics:
    enabled: true
    path: /metrics
  logging:
    level: info
    format: text
`

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("file", configPath).
			Build()
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create config directory").Build()
		}
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("file", configPath).
			Build()
	}
	return nil
}

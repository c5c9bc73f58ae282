package config

import "time"

// CurrentVersion is the only configuration schema version accepted by Load.
const CurrentVersion = "1.0"

// Config represents the contentfeed configuration file.
type Config struct {
	Version    string           `yaml:"version"`
	Site       SiteConfig       `yaml:"site"`
	Data       DataConfig       `yaml:"data"`
	HTTP       HTTPConfig       `yaml:"http"`
	Feed       FeedConfig       `yaml:"feed"`
	Sitemap    SitemapConfig    `yaml:"sitemap"`
	Pagination PaginationConfig `yaml:"pagination"`
	Generate   GenerateConfig   `yaml:"generate"`
	Preview    PreviewConfig    `yaml:"preview"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// SiteConfig describes the public site the artifacts are generated for.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"` // Absolute origin without trailing slash
	Language    string `yaml:"language"`
}

// DataConfig locates the JSON datasets and static assets.
type DataConfig struct {
	Dir       string `yaml:"dir"`
	BlogFile  string `yaml:"blog_file"`
	Projects  string `yaml:"projects_file"`
	TeamFile  string `yaml:"team_file"`
	AssetsDir string `yaml:"assets_dir"` // Root for team avatar images referenced as /path
	Logo      string `yaml:"logo"`       // Relative to AssetsDir
}

// HTTPConfig represents HTTP server configuration.
type HTTPConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// FeedConfig overrides channel metadata of the blog feed. Empty fields fall back to Site.
type FeedConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// SitemapConfig holds the fixed top-level routes listed before the dynamic ones.
type SitemapConfig struct {
	StaticRoutes      []StaticRoute `yaml:"static_routes"` // nil means the default routes
	DynamicChangeFreq ChangeFreq    `yaml:"dynamic_changefreq"`
	DynamicPriority   float64       `yaml:"dynamic_priority"`
}

// StaticRoute is one hand-listed sitemap entry.
type StaticRoute struct {
	Path       string     `yaml:"path"`
	ChangeFreq ChangeFreq `yaml:"changefreq"`
	Priority   float64    `yaml:"priority"`
}

// PaginationConfig sizes listing pages.
type PaginationConfig struct {
	BlogPageSize int `yaml:"blog_page_size"`
}

// GenerateConfig controls static artifact generation.
type GenerateConfig struct {
	OutputDir   string `yaml:"output_dir"`
	Concurrency int    `yaml:"concurrency"`
	Schedule    string `yaml:"schedule"` // Optional cron expression
}

// PreviewConfig controls the data watching preview server.
type PreviewConfig struct {
	Debounce   time.Duration `yaml:"debounce"`
	LiveReload bool          `yaml:"livereload"`
}

// MonitoringConfig represents monitoring and observability configuration.
type MonitoringConfig struct {
	Metrics MonitoringMetrics `yaml:"metrics"`
	Logging MonitoringLogging `yaml:"logging"`
}

// MonitoringMetrics represents metrics configuration.
type MonitoringMetrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MonitoringLogging represents logging configuration.
type MonitoringLogging struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

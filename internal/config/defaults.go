package config

import "time"

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// DefaultStaticRoutes are the top-level pages listed ahead of blog and project entries.
func DefaultStaticRoutes() []StaticRoute {
	return []StaticRoute{
		{Path: "/", ChangeFreq: ChangeFreqWeekly, Priority: 1.0},
		{Path: "/about", ChangeFreq: ChangeFreqMonthly, Priority: 0.8},
		{Path: "/projects", ChangeFreq: ChangeFreqWeekly, Priority: 0.9},
		{Path: "/blog", ChangeFreq: ChangeFreqWeekly, Priority: 0.8},
	}
}

// SiteDefaultApplier handles site metadata defaults.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Title == "" {
		cfg.Site.Title = "SQRT Labs Blog"
	}
	if cfg.Site.Description == "" {
		cfg.Site.Description = "Engineering notes, product insights, and Web3 development guides from SQRT Labs team."
	}
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = DefaultBaseURL
	}
	if cfg.Site.Language == "" {
		cfg.Site.Language = "en"
	}
	if cfg.Feed.Title == "" {
		cfg.Feed.Title = cfg.Site.Title
	}
	if cfg.Feed.Description == "" {
		cfg.Feed.Description = cfg.Site.Description
	}
	return nil
}

// DataDefaultApplier handles dataset location defaults.
type DataDefaultApplier struct{}

func (d *DataDefaultApplier) Domain() string { return "data" }

func (d *DataDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "./data"
	}
	if cfg.Data.BlogFile == "" {
		cfg.Data.BlogFile = "blog-posts.json"
	}
	if cfg.Data.Projects == "" {
		cfg.Data.Projects = "projects.json"
	}
	if cfg.Data.TeamFile == "" {
		cfg.Data.TeamFile = "team.json"
	}
	if cfg.Data.AssetsDir == "" {
		cfg.Data.AssetsDir = "./public"
	}
	if cfg.Data.Logo == "" {
		cfg.Data.Logo = "sqrtlabs-icon.png"
	}
	return nil
}

// HTTPDefaultApplier handles server defaults.
type HTTPDefaultApplier struct{}

func (h *HTTPDefaultApplier) Domain() string { return "http" }

func (h *HTTPDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	return nil
}

// ArtifactDefaultApplier handles sitemap, pagination and generation defaults.
type ArtifactDefaultApplier struct{}

func (a *ArtifactDefaultApplier) Domain() string { return "artifacts" }

func (a *ArtifactDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Sitemap.StaticRoutes == nil {
		cfg.Sitemap.StaticRoutes = DefaultStaticRoutes()
	}
	for i := range cfg.Sitemap.StaticRoutes {
		if cfg.Sitemap.StaticRoutes[i].ChangeFreq == "" {
			cfg.Sitemap.StaticRoutes[i].ChangeFreq = ChangeFreqMonthly
		}
	}
	if cfg.Sitemap.DynamicChangeFreq == "" {
		cfg.Sitemap.DynamicChangeFreq = ChangeFreqMonthly
	}
	if cfg.Sitemap.DynamicPriority == 0 {
		cfg.Sitemap.DynamicPriority = 0.7
	}
	if cfg.Pagination.BlogPageSize <= 0 {
		cfg.Pagination.BlogPageSize = 6
	}
	if cfg.Generate.OutputDir == "" {
		cfg.Generate.OutputDir = "./out"
	}
	if cfg.Generate.Concurrency <= 0 {
		cfg.Generate.Concurrency = 4
	}
	if cfg.Preview.Debounce <= 0 {
		cfg.Preview.Debounce = 300 * time.Millisecond
	}
	return nil
}

// MonitoringDefaultApplier handles metrics and logging defaults.
type MonitoringDefaultApplier struct{}

func (m *MonitoringDefaultApplier) Domain() string { return "monitoring" }

func (m *MonitoringDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Monitoring.Metrics.Path == "" {
		cfg.Monitoring.Metrics.Path = "/metrics"
	}
	if cfg.Monitoring.Logging.Level == "" {
		cfg.Monitoring.Logging.Level = LogLevelInfo
	}
	if cfg.Monitoring.Logging.Format == "" {
		cfg.Monitoring.Logging.Format = LogFormatText
	}
	return nil
}

// DefaultApplierRegistry runs all domain appliers in a fixed order.
type DefaultApplierRegistry struct {
	appliers []DefaultApplier
}

// NewDefaultApplier returns the registry used by Load.
func NewDefaultApplier() *DefaultApplierRegistry {
	return &DefaultApplierRegistry{appliers: []DefaultApplier{
		&SiteDefaultApplier{},
		&DataDefaultApplier{},
		&HTTPDefaultApplier{},
		&ArtifactDefaultApplier{},
		&MonitoringDefaultApplier{},
	}}
}

// ApplyDefaults applies every registered domain in order.
func (r *DefaultApplierRegistry) ApplyDefaults(cfg *Config) error {
	for _, a := range r.appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

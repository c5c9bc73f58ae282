package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
)

// ValidateConfig validates the complete configuration after defaults were applied.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	for _, step := range []func() error{
		cv.validateSite,
		cv.validateData,
		cv.validateHTTP,
		cv.validateSitemap,
		cv.validateGenerate,
		cv.validateMonitoring,
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(field, message string) error {
	return ferrors.ConfigError(message).WithContext("field", field).Build()
}

func (cv *configurationValidator) validateSite() error {
	u, err := url.Parse(cv.config.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("site.base_url", fmt.Sprintf("base_url must be an absolute URL, got %q", cv.config.Site.BaseURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid("site.base_url", fmt.Sprintf("unsupported base_url scheme %q", u.Scheme))
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return invalid("site.base_url", "base_url must not carry a query or fragment")
	}
	return nil
}

func (cv *configurationValidator) validateData() error {
	d := cv.config.Data
	for field, name := range map[string]string{
		"data.blog_file":     d.BlogFile,
		"data.projects_file": d.Projects,
		"data.team_file":     d.TeamFile,
	} {
		if strings.ContainsAny(name, `/\`) {
			return invalid(field, fmt.Sprintf("%s must be a file name inside data.dir, got %q", field, name))
		}
	}
	return nil
}

func (cv *configurationValidator) validateHTTP() error {
	if p := cv.config.HTTP.Port; p < 1 || p > 65535 {
		return invalid("http.port", fmt.Sprintf("port out of range: %d", p))
	}
	if cv.config.HTTP.ShutdownTimeout < 0 {
		return invalid("http.shutdown_timeout", "shutdown_timeout must not be negative")
	}
	return nil
}

func (cv *configurationValidator) validateSitemap() error {
	s := cv.config.Sitemap
	for i, r := range s.StaticRoutes {
		field := fmt.Sprintf("sitemap.static_routes[%d]", i)
		if !strings.HasPrefix(r.Path, "/") {
			return invalid(field+".path", fmt.Sprintf("static route path must start with '/', got %q", r.Path))
		}
		if _, err := ParseChangeFreq(string(r.ChangeFreq)); err != nil {
			return invalid(field+".changefreq", err.Error())
		}
		if r.Priority < 0 || r.Priority > 1 {
			return invalid(field+".priority", fmt.Sprintf("priority must be within [0,1], got %v", r.Priority))
		}
	}
	if _, err := ParseChangeFreq(string(s.DynamicChangeFreq)); err != nil {
		return invalid("sitemap.dynamic_changefreq", err.Error())
	}
	if s.DynamicPriority < 0 || s.DynamicPriority > 1 {
		return invalid("sitemap.dynamic_priority", fmt.Sprintf("priority must be within [0,1], got %v", s.DynamicPriority))
	}
	return nil
}

func (cv *configurationValidator) validateGenerate() error {
	g := cv.config.Generate
	if g.Concurrency > 64 {
		return invalid("generate.concurrency", fmt.Sprintf("concurrency too high: %d (max 64)", g.Concurrency))
	}
	if g.Schedule != "" {
		if err := ValidateSchedule(g.Schedule); err != nil {
			return invalid("generate.schedule", err.Error())
		}
	}
	return nil
}

func (cv *configurationValidator) validateMonitoring() error {
	m := cv.config.Monitoring
	if m.Metrics.Enabled && !strings.HasPrefix(m.Metrics.Path, "/") {
		return invalid("monitoring.metrics.path", fmt.Sprintf("metrics path must start with '/', got %q", m.Metrics.Path))
	}
	return nil
}

// ValidateSchedule checks that expr is a five-field cron expression gocron accepts.
func ValidateSchedule(expr string) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	defer func() { _ = s.Shutdown() }()
	if _, err := s.NewJob(gocron.CronJob(expr, false), gocron.NewTask(func() {})); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

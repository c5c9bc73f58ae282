package config

import (
	"fmt"
	"strings"
)

// NormalizationResult captures adjustments & warnings from normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerations and trims free-form fields prior to
// default application. It mutates the provided config in-place.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	normalizeSite(&c.Site, res)
	normalizeSitemap(&c.Sitemap, res)
	normalizeMonitoring(&c.Monitoring, res)
	return res, nil
}

func normalizeSite(s *SiteConfig, res *NormalizationResult) {
	raw := s.BaseURL
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if raw != "" && s.BaseURL != raw {
		res.Warnings = append(res.Warnings, warnChanged("site.base_url", raw, s.BaseURL))
	}
	s.Language = strings.ToLower(strings.TrimSpace(s.Language))
}

func normalizeSitemap(s *SitemapConfig, res *NormalizationResult) {
	for i := range s.StaticRoutes {
		r := &s.StaticRoutes[i]
		r.Path = strings.TrimSpace(r.Path)
		field := fmt.Sprintf("sitemap.static_routes[%d].changefreq", i)
		normalizeChangeFreq(field, &r.ChangeFreq, res)
	}
	normalizeChangeFreq("sitemap.dynamic_changefreq", &s.DynamicChangeFreq, res)
}

func normalizeChangeFreq(field string, cf *ChangeFreq, res *NormalizationResult) {
	raw := string(*cf)
	if strings.TrimSpace(raw) == "" {
		return
	}
	if changeFreqNormalizer.Changed(raw) {
		canonical := strings.ToLower(strings.TrimSpace(raw))
		res.Warnings = append(res.Warnings, warnChanged(field, raw, canonical))
		*cf = ChangeFreq(canonical)
	}
}

func normalizeMonitoring(m *MonitoringConfig, res *NormalizationResult) {
	if raw := string(m.Logging.Level); strings.TrimSpace(raw) != "" {
		lvl := NormalizeLogLevel(raw)
		if string(lvl) != raw {
			res.Warnings = append(res.Warnings, warnChanged("monitoring.logging.level", raw, lvl))
		}
		m.Logging.Level = lvl
	}
	if raw := string(m.Logging.Format); strings.TrimSpace(raw) != "" {
		f := NormalizeLogFormat(raw)
		if string(f) != raw {
			res.Warnings = append(res.Warnings, warnChanged("monitoring.logging.format", raw, f))
		}
		m.Logging.Format = f
	}
}

func warnChanged[T ~string](field string, from string, to T) string {
	return fmt.Sprintf("normalized %s from %q to %q", field, from, string(to))
}

package config

import (
	"maps"
	"time"
)

// Panel selects the element whose text the keyword hook searches.
// An empty Tag matches any element.
type Panel struct {
	Tag   string `yaml:"tag,omitempty"`
	ID    string `yaml:"id,omitempty"`
	Class string `yaml:"class,omitempty"`
}

// IsZero reports whether no selector field is set.
func (p Panel) IsZero() bool {
	return p.Tag == "" && p.ID == "" && p.Class == ""
}

// SiteConfig holds site-specific configuration for a single host.
// This allows customizing crawl behavior per site.
type SiteConfig struct {
	// Cookie is an HTTP cookie to send to this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxPages overrides the page budget. A nil value keeps the CLI value;
	// 0 means no limit.
	MaxPages *int `yaml:"maxPages,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Proxy is a SOCKS5 proxy used for this site.
	Proxy string `yaml:"proxy,omitempty"`

	// Timeout overrides the per-request timeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// StrictStatus treats non-2xx responses as failures.
	StrictStatus bool `yaml:"strictStatus,omitempty"`

	// PathPrefix selects the pages the keyword hook inspects.
	PathPrefix string `yaml:"pathPrefix,omitempty"`

	// Panel selects the element searched for keywords.
	Panel Panel `yaml:"panel,omitempty"`
}

// File represents the structure of the .webtools configuration file.
type File struct {
	// Sites maps host names to their site-specific configurations.
	// Keys are the host without scheme, with the port if non-default
	// (e.g., "books.toscrape.com" or "localhost:8080").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	if cf == nil {
		return SiteConfig{}
	}

	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = maps.Clone(cf.Defaults.Headers)
	}

	site, ok := cf.Sites[host]
	if !ok {
		return result
	}

	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		maps.Copy(result.Headers, site.Headers)
	}
	if site.MaxPages != nil {
		result.MaxPages = site.MaxPages
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if site.Proxy != "" {
		result.Proxy = site.Proxy
	}
	if site.Timeout > 0 {
		result.Timeout = site.Timeout
	}
	if site.StrictStatus {
		result.StrictStatus = true
	}
	if site.PathPrefix != "" {
		result.PathPrefix = site.PathPrefix
	}
	if !site.Panel.IsZero() {
		result.Panel = site.Panel
	}

	return result
}

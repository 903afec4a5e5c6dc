// Package config provides configuration structures and utilities for webtools.
// It defines crawl, transport and output settings, the per-site overrides read
// from the YAML configuration file, and the XDG directories used for history.
package config

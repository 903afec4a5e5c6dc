package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages of 0 crawls until the frontier is exhausted.
	DefaultMaxPages = 0

	// AppName is the application name used for XDG directory paths.
	AppName = "webtools"

	// DefaultUserAgent identifies webtools in HTTP requests.
	DefaultUserAgent = "webtools/1.0 (+https://github.com/max-plutonium/webtools)"

	// DefaultMaxBodySize limits the response body size to read.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultPathPrefix selects the pages inspected by the keyword hook.
	DefaultPathPrefix = "/catalogue/"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Fetcher backends.
const (
	FetcherHTTP  = "http"
	FetcherColly = "colly"
)

// DefaultPanel is the element whose text is searched for keywords.
var DefaultPanel = Panel{Tag: "div", ID: "panel1", Class: "tabs-panel"}

// Config holds all options for a keyword crawl.
// It is populated from CLI flags and the configuration file and passed
// through the application rather than kept in global state.
type Config struct {
	// Site is the seed URL of the crawl.
	Site string

	// KeywordFiles are the .xlsx, .csv or .txt keyword lists, merged.
	KeywordFiles []string

	// OutputFile receives the result.
	OutputFile string

	// ReportFile, when set, also receives a Markdown report of the run.
	ReportFile string

	// MaxPages caps the number of pages visited. 0 means no limit.
	MaxPages int

	// Format is the output format, FormatJSON or FormatMarkdown.
	Format string

	// PrettyPrint indents JSON output.
	PrettyPrint bool

	// Fetcher selects the transport backend, FetcherHTTP or FetcherColly.
	Fetcher string

	// ProxyURL is an optional SOCKS5 proxy, e.g. "socks5://127.0.0.1:9050".
	ProxyURL string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes.
	// 0 means DefaultMaxBodySize.
	MaxBodySize int64

	// StrictStatus treats non-2xx responses as fetch failures.
	StrictStatus bool

	// PathPrefix selects the pages the keyword hook inspects.
	PathPrefix string

	// Panel selects the element holding the searched text.
	Panel Panel

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the explicit configuration file, if any.
	ConfigFilePath string

	// SiteConfigs holds the settings read from the configuration file.
	SiteConfigs *File

	// SaveToDB records the finished run in the history database.
	SaveToDB bool

	// DBDir is the directory of the history database.
	// Defaults to the XDG data directory (~/.local/share/webtools on Linux).
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		MaxPages:    DefaultMaxPages,
		Format:      FormatJSON,
		Fetcher:     FetcherHTTP,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		PathPrefix:  DefaultPathPrefix,
		Panel:       DefaultPanel,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for webtools.
// On Linux: ~/.local/share/webtools
// On macOS: ~/Library/Application Support/webtools
// On Windows: %LOCALAPPDATA%\webtools
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for webtools.
// On Linux: ~/.config/webtools
// On macOS: ~/Library/Application Support/webtools
// On Windows: %APPDATA%\webtools
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplySiteConfig overlays file settings onto c.
// Only fields in explicit (keyed by flag name) keep their CLI values;
// every other field takes the file value when one is set.
func (c *Config) ApplySiteConfig(sc SiteConfig, explicit map[string]bool) {
	if sc.MaxPages != nil && !explicit["max-pages"] {
		c.MaxPages = *sc.MaxPages
	}
	if sc.UserAgent != "" && !explicit["user-agent"] {
		c.UserAgent = sc.UserAgent
	}
	if sc.Proxy != "" && !explicit["proxy"] {
		c.ProxyURL = sc.Proxy
	}
	if sc.Timeout > 0 && !explicit["timeout"] {
		c.Timeout = sc.Timeout
	}
	if sc.PathPrefix != "" {
		c.PathPrefix = sc.PathPrefix
	}
	if !sc.Panel.IsZero() {
		c.Panel = sc.Panel
	}
	if sc.StrictStatus && !explicit["strict-status"] {
		c.StrictStatus = true
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	if c.Site == "" {
		return ErrNoSite
	}

	if len(c.KeywordFiles) == 0 {
		return ErrNoKeywordFile
	}

	if c.OutputFile == "" {
		return ErrNoOutputFile
	}

	for _, in := range c.KeywordFiles {
		if in == "" {
			return ErrNoKeywordFile
		}
		if filepath.Clean(in) == filepath.Clean(c.OutputFile) {
			return ErrSamePath
		}
		if c.ReportFile != "" && filepath.Clean(in) == filepath.Clean(c.ReportFile) {
			return ErrSamePath
		}
	}

	if c.ReportFile != "" && filepath.Clean(c.ReportFile) == filepath.Clean(c.OutputFile) {
		return ErrSamePath
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	switch c.Format {
	case FormatJSON, FormatMarkdown:
	default:
		return ErrInvalidFormat
	}

	switch c.Fetcher {
	case FetcherHTTP, FetcherColly:
	default:
		return ErrInvalidFetcher
	}

	return nil
}

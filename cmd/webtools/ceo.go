package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/max-plutonium/webtools/internal/config"
	"github.com/max-plutonium/webtools/internal/crawler"
	"github.com/max-plutonium/webtools/internal/database"
	"github.com/max-plutonium/webtools/internal/document"
	"github.com/max-plutonium/webtools/internal/fetch"
	"github.com/max-plutonium/webtools/internal/keyword"
	"github.com/max-plutonium/webtools/internal/model"
	"github.com/max-plutonium/webtools/internal/report"
)

// NewCeoCmd creates the ceo command group.
func NewCeoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ceo",
		Short: "Search engine optimisation tools",
		Long:  `Tools that crawl a site and analyse its pages for search engine optimisation.`,
	}

	cmd.AddCommand(NewKeywordsCmd())

	return cmd
}

// NewKeywordsCmd creates the ceo keywords command.
func NewKeywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords SITE",
		Short: "Find keywords on the catalogue pages of a site",
		Long: `Keywords crawls SITE breadth-first, following only links that stay on the
same scheme, host and port. Every page whose path starts with the catalogue
prefix is searched for the keywords listed in the input file, and the result
is written as a JSON object mapping page path to matched keywords.

The keyword file is the first column of the first sheet of an .xlsx workbook,
the first column of a .csv file, or one keyword per line of a .txt file.`,
		Example: heredoc.Doc(`
			# Crawl the whole site
			webtools ceo keywords -i keywords.xlsx -o result.json https://books.toscrape.com/

			# Stop after 50 pages and write a Markdown report
			webtools ceo keywords -i keywords.xlsx -o report.md -m 50 --format markdown https://books.toscrape.com/

			# Merge two keyword files, crawl through a SOCKS5 proxy and keep the run
			webtools ceo keywords -i words.txt -i extra.csv -o out.json --proxy socks5://127.0.0.1:9050 --save http://example.onion/
		`),
		Args: cobra.ExactArgs(1),
		RunE: runKeywordsCmd,
	}

	cmd.Flags().StringSliceP("in", "i", nil, "Keyword file (.xlsx, .csv or .txt); repeat to merge several")
	cmd.Flags().StringP("out", "o", "", "Output file path (creates directories if needed)")
	cmd.Flags().IntP("max-pages", "m", config.DefaultMaxPages,
		"Maximum number of pages to visit (0 means no limit)")

	cmd.Flags().String("format", config.FormatJSON, "Output format: json or markdown")
	cmd.Flags().Bool("pretty", false, "Indent JSON output")
	cmd.Flags().String("report", "", "Also write a Markdown report of the run to this file")

	cmd.Flags().String("fetcher", config.FetcherHTTP, "Fetcher backend: http or colly")
	cmd.Flags().String("proxy", "", "SOCKS5 proxy URL (e.g., socks5://127.0.0.1:9050)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent, "User-Agent header")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize, "Maximum response body size in bytes")
	cmd.Flags().Bool("strict-status", false, "Treat non-2xx responses as errors")

	cmd.Flags().Bool("save", false, "Record the run in the history database")
	cmd.Flags().String("db-dir", "", "History database directory (default: XDG data directory)")

	_ = cmd.MarkFlagRequired("in")  //nolint:errcheck // flag is defined above
	_ = cmd.MarkFlagRequired("out") //nolint:errcheck // flag is defined above

	return cmd
}

// runKeywordsCmd executes the ceo keywords command.
func runKeywordsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildKeywordsConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	rep, err := runKeywords(ctx, cfg, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Output written to file %s\n", cfg.OutputFile)
	if cfg.ReportFile != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to file %s\n", cfg.ReportFile)
	}
	if getVerboseFlag(cmd) {
		_, _ = report.NewSummaryWriter(cmd.ErrOrStderr(), report.WithTopKeywords(10)).Write(rep) //nolint:errcheck // best-effort terminal output
	}
	return nil
}

// buildKeywordsConfig creates a Config from flags and the configuration file.
func buildKeywordsConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error

	if len(args) > 0 {
		cfg.Site = args[0]
	}

	if cfg.KeywordFiles, err = flags.GetStringSlice("in"); err != nil {
		return nil, err
	}
	if cfg.OutputFile, err = flags.GetString("out"); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report"); err != nil {
		return nil, err
	}
	if cfg.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	if cfg.PrettyPrint, err = flags.GetBool("pretty"); err != nil {
		return nil, err
	}
	if cfg.Fetcher, err = flags.GetString("fetcher"); err != nil {
		return nil, err
	}
	if cfg.ProxyURL, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.StrictStatus, err = flags.GetBool("strict-status"); err != nil {
		return nil, err
	}
	if cfg.SaveToDB, err = flags.GetBool("save"); err != nil {
		return nil, err
	}

	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.Verbose = getVerboseFlag(cmd)

	cfg.ConfigFilePath = getConfigFlag(cmd)
	cfg.SiteConfigs, err = loadSiteConfigs(cfg.ConfigFilePath)
	if err != nil {
		return nil, err
	}

	explicit := make(map[string]bool)
	for _, name := range []string{"max-pages", "user-agent", "proxy", "timeout", "strict-status"} {
		explicit[name] = flags.Changed(name)
	}
	cfg.ApplySiteConfig(cfg.SiteConfigs.GetSiteConfig(siteHost(cfg.Site)), explicit)

	return cfg, nil
}

// loadSiteConfigs loads the configuration file.
// An explicitly given path must exist; otherwise a missing file yields an
// empty configuration.
func loadSiteConfigs(explicitPath string) (*config.File, error) {
	path := config.FindConfigFile(explicitPath)
	if path == "" {
		if explicitPath != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicitPath)
		}
		return &config.File{Sites: make(map[string]config.SiteConfig)}, nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return file, nil
}

// siteHost returns the host[:port] of a seed URL, or "" if it does not parse.
func siteHost(site string) string {
	u, err := url.Parse(site)
	if err != nil {
		return ""
	}
	return u.Host
}

// runKeywords loads the keywords, crawls the site and writes the output.
// The returned report is also recorded in history when cfg.SaveToDB is set,
// including failed runs.
func runKeywords(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*model.KeywordReport, error) {
	words, err := keyword.LoadAll(ctx, cfg.KeywordFiles...)
	if err != nil {
		return nil, err
	}
	keywords := keyword.NewSet(words...)
	if keywords.HasEmpty() {
		logger.Debug("keyword files contain blank entries; they never match", "files", cfg.KeywordFiles)
	}
	logger.Info("loaded keywords", "files", cfg.KeywordFiles, "count", keywords.Len())

	siteConfig := cfg.SiteConfigs.GetSiteConfig(siteHost(cfg.Site))

	fetcher, err := newFetcher(cfg, siteConfig)
	if err != nil {
		return nil, err
	}

	hook := keyword.NewCatalogueHook(keywords,
		keyword.WithPathPrefix(cfg.PathPrefix),
		keyword.WithPanel(document.Match{Tag: cfg.Panel.Tag, ID: cfg.Panel.ID, Class: cfg.Panel.Class}),
	)

	spider := crawler.NewSpider(fetcher,
		crawler.WithHooks(hook),
		crawler.WithLogger(logger),
		crawler.WithVisitCallback(func(u *url.URL, pages int) {
			logger.Debug("visited page", "url", u.String(), "pages", pages)
		}),
	)

	logger.Info("starting crawl",
		"site", cfg.Site,
		"maxPages", cfg.MaxPages,
		"fetcher", cfg.Fetcher,
	)

	rep := model.NewKeywordReport(cfg.Site, cfg.MaxPages)
	pages, crawlErr := spider.Run(ctx, cfg.Site, cfg.MaxPages)
	rep.Finish(pages, hook.Result(), crawlErr)

	logger.Info("crawl finished",
		"pages", pages,
		"matchedPages", len(rep.Pages),
		"elapsed", rep.Duration().Round(time.Millisecond),
	)

	if cfg.SaveToDB {
		// Cancellation must not prevent recording the run.
		saveCtx := context.WithoutCancel(ctx)
		if err := saveRun(saveCtx, cfg.DBDir, rep, logger); err != nil {
			logger.Error("failed to save run", "error", err)
		}
	}

	if crawlErr != nil {
		return rep, fmt.Errorf("crawl of %s failed after %d pages: %w", cfg.Site, pages, crawlErr)
	}

	if err := writeOutput(cfg, rep); err != nil {
		return rep, err
	}

	return rep, nil
}

// newFetcher builds the configured fetcher backend.
func newFetcher(cfg *config.Config, site config.SiteConfig) (crawler.Fetcher, error) {
	opts := fetch.Options{
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.Timeout,
		MaxBodyBytes: cfg.MaxBodySize,
		Headers:      site.Headers,
		Cookie:       site.Cookie,
		ProxyURL:     cfg.ProxyURL,
		StrictStatus: cfg.StrictStatus,
	}

	switch cfg.Fetcher {
	case config.FetcherColly:
		return fetch.NewCollyFetcher(opts)
	case config.FetcherHTTP:
		return fetch.NewHTTPFetcher(opts)
	default:
		return nil, config.ErrInvalidFetcher
	}
}

// outputFileMode is the mode of written output files.
const outputFileMode = 0644

// outputTarget is one file produced by writeOutput.
type outputTarget struct {
	path   string
	format string
}

// writeOutput renders rep into temporary files next to each output path and
// renames them into place, so a failed write never leaves a partial file.
// The result goes to cfg.OutputFile and, when cfg.ReportFile is set, a
// Markdown report goes to cfg.ReportFile.
func writeOutput(cfg *config.Config, rep *model.KeywordReport) (err error) {
	targets := []outputTarget{{path: cfg.OutputFile, format: cfg.Format}}
	if cfg.ReportFile != "" {
		targets = append(targets, outputTarget{path: cfg.ReportFile, format: config.FormatMarkdown})
	}

	temps := make([]*os.File, 0, len(targets))
	defer func() {
		if err != nil {
			for _, tmp := range temps {
				_ = tmp.Close()           //nolint:errcheck // already failing
				_ = os.Remove(tmp.Name()) //nolint:errcheck // already failing
			}
		}
	}()

	writers := make([]report.Writer, 0, len(targets))
	for _, target := range targets {
		tmp, err := createOutputTemp(target.path)
		if err != nil {
			return err
		}
		temps = append(temps, tmp)

		w, err := report.NewWriter(target.format, tmp, cfg.PrettyPrint)
		if err != nil {
			return err
		}
		writers = append(writers, w)
	}

	if _, err = report.NewMultiWriter(writers...).Write(rep); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	for _, tmp := range temps {
		if err = tmp.Chmod(outputFileMode); err != nil {
			return fmt.Errorf("failed to set output file mode: %w", err)
		}
		if err = tmp.Close(); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	for i, tmp := range temps {
		if err = os.Rename(tmp.Name(), targets[i].path); err != nil {
			return fmt.Errorf("failed to write output file %s: %w", targets[i].path, err)
		}
	}
	return nil
}

// createOutputTemp creates a temporary file in the directory of path.
func createOutputTemp(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".webtools-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return tmp, nil
}

// saveRun records rep in the history database.
func saveRun(ctx context.Context, dbDir string, rep *model.KeywordReport, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, rep)
	if err != nil {
		return err
	}
	logger.Info("run saved", "id", id, "db", db.Path())
	return nil
}

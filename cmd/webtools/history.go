package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/max-plutonium/webtools/internal/config"
	"github.com/max-plutonium/webtools/internal/database"
	"github.com/max-plutonium/webtools/internal/keyword"
	"github.com/max-plutonium/webtools/internal/report"
)

// NewHistoryCmd creates the history command group.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect runs saved with --save",
		Long: `History lists, shows, searches and deletes keyword runs recorded in the
history database. Runs are recorded by 'webtools ceo keywords --save'.`,
		Example: heredoc.Doc(`
			webtools history list --site https://books.toscrape.com/ -n 5
			webtools history show 3f1c2a9e-0d4b-4c1e-9a57-2b8f6e1d7c40 --format markdown
			webtools history search fiction
		`),
	}

	cmd.PersistentFlags().String("db-dir", "", "History database directory (default: XDG data directory)")

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistorySearchCmd())
	cmd.AddCommand(newHistoryDeleteCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	}
	cmd.Flags().String("site", "", "Only list runs of this seed URL")
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list (0 lists all)")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	}
	cmd.Flags().String("format", "summary", "Output format: summary, json or markdown")
	return cmd
}

func newHistorySearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search KEYWORD",
		Short: "Find saved pages that matched a keyword",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistorySearchCmd,
	}
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete RUN_ID",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDeleteCmd,
	}
}

// openHistory opens an existing history database.
func openHistory(cmd *cobra.Command) (*database.HistoryDB, error) {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return db, nil
}

func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	site, err := cmd.Flags().GetString("site")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context(), site, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No saved runs.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSITE\tVISITED\tMATCHED\tSTATUS")
	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Site,
			run.PagesVisited,
			run.PagesMatched,
			status,
		)
	}
	return tw.Flush()
}

func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	w, err := historyWriter(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	rep, err := db.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	_, err = w.Write(rep)
	return err
}

// historyWriter returns the writer for history show.
func historyWriter(format string, out io.Writer) (report.Writer, error) {
	if format == "summary" {
		return report.NewSummaryWriter(out, report.WithPages(true)), nil
	}
	return report.NewWriter(format, out, true)
}

func runHistorySearchCmd(cmd *cobra.Command, args []string) error {
	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	matches, err := db.FindKeyword(cmd.Context(), keyword.Normalize(args[0]))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintf(out, "No saved page matched %q.\n", args[0])
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSITE\tPATH")
	for _, m := range matches {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.RunID, m.Site, m.Path)
	}
	return tw.Flush()
}

func runHistoryDeleteCmd(cmd *cobra.Command, args []string) error {
	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteRun(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
	return nil
}

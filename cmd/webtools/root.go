package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/max-plutonium/webtools/internal/log"
)

// NewRootCmd creates the root command for webtools.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webtools",
		Short: "Website crawling utilities",
		Long: `webtools crawls websites breadth-first, staying on the seed's origin,
and runs analyses on the pages it visits.

Run 'webtools ceo keywords --help' to find keywords on catalogue pages.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .webtools in current or home directory)")
	cmd.PersistentFlags().String("log-format", "text", "Log format: text or json")

	cmd.AddCommand(NewCeoCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the --config path, or "" when the flag is absent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// setupLogger creates the redacting logger for a command.
// An unknown --log-format falls back to text.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		format, _ = cmd.Root().PersistentFlags().GetString("log-format") //nolint:errcheck // absent flag means text
	}
	if format == "json" {
		return log.NewJSONLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
	}
	return log.NewLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/harrison/jsontable/internal/history"
	"github.com/harrison/jsontable/internal/models"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the 'jsontable history' command group
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversions",
		Long: `List recorded conversions, newest first, followed by totals.

Conversions are recorded in .jsontable/history.db unless history is
disabled in the configuration or with --no-history.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", 20, "Maximum number of conversions to show")
	cmd.Flags().Bool("failed", false, "Only show failed conversions")
	cmd.Flags().String("source", "", "Only show conversions of this source")

	cmd.AddCommand(NewHistoryPruneCommand())

	return cmd
}

// NewHistoryPruneCommand creates the 'jsontable history prune' command
func NewHistoryPruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the most recent conversions",
		Args:  cobra.NoArgs,
		RunE:  runHistoryPrune,
	}

	cmd.Flags().Int("keep", 100, "Number of most recent conversions to keep")

	return cmd
}

// openHistory opens the configured history database for reading. It
// returns a nil store and no error when there is nothing to read.
func openHistory(cmd *cobra.Command) (*history.Store, string, error) {
	env, err := loadEnvironment(cmd, envOptions{})
	if err != nil {
		return nil, "", err
	}

	dbPath := env.cfg.History.DBPath
	if dbPath == "" {
		return nil, "", nil
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, dbPath, nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return nil, dbPath, fmt.Errorf("failed to open history database: %w", err)
	}
	return store, dbPath, nil
}

// runHistory executes the history command
func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	failedOnly, _ := cmd.Flags().GetBool("failed")
	source, _ := cmd.Flags().GetString("source")
	output := cmd.OutOrStdout()

	store, dbPath, err := openHistory(cmd)
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintln(output, "No conversion history found")
		if dbPath != "" {
			fmt.Fprintf(output, "Database path: %s\n", dbPath)
		}
		return nil
	}
	defer store.Close()

	ctx := cmd.Context()
	records, err := store.RecentConversions(ctx, history.Query{Limit: limit, FailedOnly: failedOnly, Source: source})
	if err != nil {
		return err
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	displayHistory(output, records, stats)
	return nil
}

// runHistoryPrune executes the history prune command
func runHistoryPrune(cmd *cobra.Command, args []string) error {
	keep, _ := cmd.Flags().GetInt("keep")
	if keep < 0 {
		return fmt.Errorf("--keep must be >= 0, got %d", keep)
	}

	store, _, err := openHistory(cmd)
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No conversion history found")
		return nil
	}
	defer store.Close()

	removed, err := store.Prune(cmd.Context(), keep)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d conversions, kept at most %d\n", removed, keep)
	return nil
}

// displayHistory prints records newest first, then totals
func displayHistory(w io.Writer, records []models.ConversionRecord, stats history.Stats) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)
	faint := color.New(color.Faint)

	if len(records) == 0 {
		fmt.Fprintln(w, "No matching conversions")
	} else {
		bold.Fprintln(w, "Recent conversions:")
	}

	for _, rec := range records {
		var status string
		switch rec.Status {
		case models.StatusOK:
			status = green.Sprintf("%-9s", rec.Status)
		case models.StatusTruncated:
			status = yellow.Sprintf("%-9s", rec.Status)
		default:
			status = red.Sprintf("%-9s", rec.Status)
		}

		fmt.Fprintf(w, "  %s  %s  %s",
			faint.Sprint(rec.Timestamp.Local().Format("2006-01-02 15:04:05")), status, rec.Source)
		if rec.Failed() {
			fmt.Fprintf(w, "  [%s] %s\n", rec.ErrorKind, rec.Message)
			continue
		}
		fmt.Fprintf(w, "  %d rows x %d cols (limit %s)\n", rec.Rows, rec.Columns, rec.Limit)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total: %d  %s  %s  %s\n",
		stats.Total,
		green.Sprintf("ok: %d", stats.OK),
		yellow.Sprintf("truncated: %d", stats.Truncated),
		red.Sprintf("failed: %d", stats.Failed))
}

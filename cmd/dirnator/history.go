package main

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/dirnator/pkg/dirnator/history"
	"github.com/jamesainslie/dirnator/pkg/dirnator/report"
)

func newHistoryCmd(c *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: heredoc.Doc(`
			List completed runs, newest first.

			Every successful run is recorded unless --no-history is given or
			history.enabled is false in the config file.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := c.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(limit)
			if err != nil {
				return fmt.Errorf("listing history: %w", err)
			}
			printHistory(cmd, records)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of entries to show (0 for all)")

	cmd.AddCommand(newHistoryShowCmd(c), newHistoryClearCmd(c))
	return cmd
}

func newHistoryShowCmd(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recorded run",
		Long:  `Show a recorded run by its ID or any unique prefix of it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Find(args[0])
			if err != nil {
				return err
			}

			if err := render(cmd, format, recordReport(rec)); err != nil {
				return err
			}
			if len(rec.Reports) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "\nReports:")
				for _, path := range rec.Reports {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", path)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pretty", "output format")
	return cmd
}

func newHistoryClearCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := c.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(); err != nil {
				return fmt.Errorf("clearing history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
}

// printHistory writes one line per record.
func printHistory(cmd *cobra.Command, records []*history.Record) {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return
	}

	fmt.Fprintf(out, "%-36s  %-19s  %-6s  %5s  %s\n", "ID", "TIME", "MODE", "SCANS", "ROOT")
	fmt.Fprintln(out, strings.Repeat("-", 90))
	for _, rec := range records {
		fmt.Fprintf(out, "%-36s  %-19s  %-6s  %5d  %s\n",
			rec.ID,
			rec.Time.Local().Format("2006-01-02 15:04:05"),
			rec.Mode,
			len(rec.Stats),
			rec.Root,
		)
	}
}

// recordReport converts a record for the report formatters.
func recordReport(rec *history.Record) *report.Report {
	hw := rec.Hardware
	rep := &report.Report{
		Source: "history " + rec.ID.String(),
		Mode:   rec.Mode,
		Root:   rec.Root,
		Stats:  rec.Stats,
	}
	if rec.Disk != nil {
		rep.Disk = report.NewDiskStats(*rec.Disk)
	} else {
		rep.Hardware = &hw
	}
	return rep
}

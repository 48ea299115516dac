package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/dirnator/pkg/dirnator/report"
)

func newViewCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "view <report>",
		Short: "Render a saved report",
		Long: heredoc.Docf(`
			Load a JSON report (map, bench, stress or disk) or a binary map report
			and render it in the chosen format.

			Formats: %s
		`, strings.Join(report.Available(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := report.Load(args[0])
			if err != nil {
				return err
			}
			return render(cmd, format, rep)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "pretty", "output format")
	return cmd
}

// render writes rep to the command's output through the named formatter.
func render(cmd *cobra.Command, format string, rep *report.Report) error {
	f, err := report.Get(format)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := f.Format(&buf, rep); err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

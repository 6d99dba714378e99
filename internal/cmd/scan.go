package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/cubicfold/internal/engine"
	"github.com/dshills/cubicfold/internal/report"
	"github.com/dshills/cubicfold/internal/section"
)

// newScanCommand creates the scan subcommand
func newScanCommand(g *globals) *cobra.Command {
	var (
		row       int
		format    string
		colorMode string
	)

	cmd := &cobra.Command{
		Use:   "scan FILE",
		Short: "Report the sections of a file",
		Long: `Scan a file for marker-delimited sections and report whether the
markers are well formed, the sections they bound, the section holding
--row, and every marker row. Rows are 0-based.

Exit code: 0 if the markers are valid, 1 otherwise`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			marker, err := g.cfg.MarkerFunc()
			if err != nil {
				return err
			}
			eng, err := engine.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}

			r := report.New(args[0], eng, section.NewScanner(marker), row)
			out := cmd.OutOrStdout()
			if err := report.Write(out, r, f, report.Options{Color: useColor(colorMode, out)}); err != nil {
				return err
			}
			if !r.Valid {
				return ErrInvalidSections
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&row, "row", 0, "reference row (0-based) for the current section")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	cmd.Flags().StringVar(&colorMode, "color", "auto", "color text output: auto, always or never")

	return cmd
}

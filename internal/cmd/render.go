package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/cubicfold/internal/app"
	foldhandler "github.com/dshills/cubicfold/internal/dispatcher/handlers/fold"
	"github.com/dshills/cubicfold/internal/renderer"
)

// opCommands maps the short --op names to commands.
var opCommands = map[string]string{
	"toggle":         "cubic-folds:toggleFold-this",
	"toggle-all":     "cubic-folds:toggleFold-all",
	"fold-all":       "cubic-folds:fold-all",
	"unfold-all":     "cubic-folds:unfold-all",
	"unfold-markers": foldhandler.ActionUnfoldMarkers,
}

// commandName resolves an --op value. Short names map through opCommands,
// names with a ':' or '.' are dispatched as given, and anything else gets
// the command prefix.
func commandName(op string) string {
	if name, ok := opCommands[op]; ok {
		return name
	}
	if strings.ContainsAny(op, ":.") {
		return op
	}
	return app.NotificationSource + ":" + op
}

// newRenderCommand creates the render subcommand
func newRenderCommand(g *globals) *cobra.Command {
	var (
		ops       []string
		row       int
		numbers   bool
		colorMode string
	)

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Apply fold commands to a file and print the result",
		Long: `Open a file, put the cursor on --row, run each --op in order and print
the visible rows. Folded rows end with the fold placeholder and the number
of hidden rows.

Operations: toggle, toggle-all, fold-all, unfold-all, unfold-markers, or
any command or action name such as cubic-folds:fold-all or fold.foldAll.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := g.logger("")
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			s, err := g.session(logger)
			if err != nil {
				return err
			}
			defer s.Close()

			doc, err := s.Documents().Open(args[0])
			if err != nil {
				return err
			}
			doc.Engine.SetCursorRow(row)
			if err := s.Activate(); err != nil {
				return err
			}

			for _, op := range ops {
				result := s.DispatchName(commandName(op))
				if result.IsError() {
					msg := result.Message
					if msg == "" && result.Error != nil {
						msg = result.Error.Error()
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", op, msg)
				}
			}

			marker, err := g.cfg.MarkerFunc()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return renderer.RenderText(out, renderer.Layout(doc.Engine, marker), renderer.TextOptions{
				LineNumbers: numbers,
				Color:       useColor(colorMode, out),
			})
		},
	}

	cmd.Flags().StringSliceVar(&ops, "op", nil, "fold operation to apply; repeat or comma-separate for several")
	cmd.Flags().IntVar(&row, "row", 0, "cursor row (0-based) the operations run at")
	cmd.Flags().BoolVar(&numbers, "numbers", true, "show line numbers")
	cmd.Flags().StringVar(&colorMode, "color", "auto", "color output: auto, always or never")

	return cmd
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dshills/cubicfold/internal/plugin/lua"
	"github.com/dshills/cubicfold/internal/renderer"
)

// newRunCommand creates the run subcommand
func newRunCommand(g *globals) *cobra.Command {
	var (
		row       int
		show      bool
		colorMode string
		timeout   = lua.DefaultExecutionTimeout
	)

	cmd := &cobra.Command{
		Use:   "run FILE SCRIPT",
		Short: "Run a Lua script against a file",
		Long: `Open FILE and run the Lua SCRIPT with the global "fold" table:

  fold.toggle()            fold.toggle_all()      fold.fold_all([quiet])
  fold.unfold_all()        fold.unfold_markers()  fold.dispatch(name)
  fold.sections()          fold.cursor()          fold.set_cursor(row)
  fold.is_folded(row)      fold.line(row)         fold.line_count()

Rows are 1-based in Lua. print writes to standard output. With --show the
folded file is printed after the script.`,
		Args: cobra.ExactArgs(2),
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

			out := cmd.OutOrStdout()
			state := lua.NewState(
				lua.WithLogger(logger),
				lua.WithOutput(out),
				lua.WithExecutionTimeout(timeout),
			)
			defer func() { _ = state.Close() }()
			lua.NewFoldModule(s).Register(state)

			if err := state.DoFile(cmd.Context(), args[1]); err != nil {
				return err
			}
			if !show {
				return nil
			}

			marker, err := g.cfg.MarkerFunc()
			if err != nil {
				return err
			}
			return renderer.RenderText(out, renderer.Layout(doc.Engine, marker), renderer.TextOptions{
				LineNumbers: true,
				Color:       useColor(colorMode, out),
			})
		},
	}

	cmd.Flags().IntVar(&row, "row", 0, "initial cursor row (0-based)")
	cmd.Flags().BoolVar(&show, "show", false, "print the folded file after the script")
	cmd.Flags().StringVar(&colorMode, "color", "auto", "color output: auto, always or never")
	cmd.Flags().DurationVar(&timeout, "timeout", timeout, "script execution timeout (0 disables)")

	return cmd
}

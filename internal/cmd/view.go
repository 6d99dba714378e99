package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/cubicfold/internal/app"
	"github.com/dshills/cubicfold/internal/plugin/lua"
	"github.com/dshills/cubicfold/internal/renderer/backend"
)

// newViewCommand creates the view subcommand
func newViewCommand(g *globals) *cobra.Command {
	var (
		script  string
		watch   bool
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Show a file in the terminal viewer",
		Long: `Open FILE in an interactive viewer. Sections fold shortly after the file
opens when fold.fold_on_startup is set.

Keys: z toggle fold, Z toggle all, f fold all, u unfold all, j/k or arrows
move, g/G first/last line, q or Esc quit. view.keys in the configuration
rebinds them.

The viewer owns the terminal, so logs go to --log or log.file and are
discarded otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.NewNop()
			if logFile != "" || g.cfg.Log.File != "" {
				l, closeLog, err := g.logger(logFile)
				if err != nil {
					return err
				}
				defer func() { _ = closeLog() }()
				logger = l
			}

			term, err := backend.NewTerminal()
			if err != nil {
				return err
			}

			s, err := app.NewSession(
				app.WithConfig(g.cfg),
				app.WithLogger(logger),
				app.WithScheduler(app.PostScheduler(term)),
			)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.Documents().Open(args[0]); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := []app.ViewerOption{app.WithWatch(watch)}
			if script != "" {
				state := lua.NewState(lua.WithLogger(logger))
				defer func() { _ = state.Close() }()
				lua.NewFoldModule(s).Register(state)

				opts = append(opts, app.WithOnStart(func(v *app.Viewer) {
					if err := state.DoFile(ctx, script); err != nil {
						v.View().SetStatus(err.Error(), true)
					}
				}))
			}

			v, err := app.NewViewer(s, term, opts...)
			if err != nil {
				return err
			}
			return v.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&script, "script", "", "Lua script to run once the file is shown")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the file when it changes on disk")
	cmd.Flags().StringVar(&logFile, "log", "", "log file")

	return cmd
}

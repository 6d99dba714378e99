// Package cmd implements the cubicfold command line.
package cmd

import (
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/cubicfold/internal/app"
	"github.com/dshills/cubicfold/internal/config"
	"github.com/dshills/cubicfold/internal/logging"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// ErrInvalidSections is returned by scan when the markers are missing or
// unpaired. The process exits with status 1 without printing it.
var ErrInvalidSections = errors.New("fold markers missing or unpaired")

// globals holds the persistent flags and the configuration they load.
type globals struct {
	configPath string
	logLevel   string

	cfg *config.Config
}

// NewRootCommand creates and returns the root cobra command for cubicfold
func NewRootCommand() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   "cubicfold",
		Short: "Fold marker-delimited sections of text files",
		Long: `cubicfold finds sections bounded by marker lines (by default "///")
and folds or unfolds them.

It can report the sections of a file, print a folded rendering, run Lua
scripts against the fold commands, and show a file in an interactive
terminal viewer.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.load()
		},
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "configuration file (.toml, .yaml)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newScanCommand(g))
	cmd.AddCommand(newRenderCommand(g))
	cmd.AddCommand(newRunCommand(g))
	cmd.AddCommand(newViewCommand(g))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// load reads the configuration file and environment overrides.
func (g *globals) load() error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	g.cfg = cfg
	return nil
}

// logger builds the logger from the configuration. file overrides the
// configured file when set. Logs on stderr start at warn unless --log-level
// asks for more.
func (g *globals) logger(file string) (*zap.Logger, func() error, error) {
	lc, err := g.cfg.Logging()
	if err != nil {
		return nil, nil, err
	}
	if file != "" {
		lc.File = file
	}
	if lc.File == "" && g.logLevel == "" && lc.Level < zapcore.WarnLevel {
		lc.Level = zapcore.WarnLevel
	}
	return logging.New(lc)
}

// session creates an inactive session with the startup fold disabled. The
// caller activates and closes it.
func (g *globals) session(logger *zap.Logger, opts ...app.Option) (*app.Session, error) {
	cfg := *g.cfg
	cfg.Fold.FoldOnStartup = false
	base := []app.Option{app.WithConfig(&cfg), app.WithLogger(logger)}
	return app.NewSession(append(base, opts...)...)
}

// Silent reports whether err should exit without an error message.
func Silent(err error) bool {
	return errors.Is(err, ErrInvalidSections)
}

// useColor resolves a --color mode for w.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Package cli implements the flashmind command line: topic and card
// management, interactive study, statistics, backups and migrations.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/p-devianne/flashmind/internal/app"
	"github.com/p-devianne/flashmind/internal/config"
	"github.com/p-devianne/flashmind/internal/platform/logger"
)

// env is shared by every command of one invocation.
type env struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	logLevel   string

	cfg *config.Config
	log *slog.Logger
	app *app.App
}

// Execute runs the flashmind command line with args. Normal output goes
// to out; logs and errors go to errOut.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	e := &env{in: in, out: out, errOut: errOut}
	root := newRootCommand(e)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if closeErr := e.close(); err == nil {
		err = closeErr
	}
	return err
}

func newRootCommand(e *env) *cobra.Command {

	root := &cobra.Command{
		Use:   "flashmind",
		Short: "Flashcards with a simple score model",
		Long: `FlashMind keeps topics of question/answer cards and runs study sessions.
Each card carries a score; feedback moves it down (miss), leaves it (not yet)
or moves it up (good). Focus mode shows low-scoring cards more often.`,
		SilenceUsage: true,
	}
	root.SetIn(e.in)
	root.SetOut(e.out)
	root.SetErr(e.errOut)

	root.PersistentFlags().StringVarP(&e.configPath, "config", "c", "", "config file (default ./flashmind.yaml or ~/.flashmind/flashmind.yaml)")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newMigrateCommand(e),
		newTopicCommand(e),
		newCardCommand(e),
		newStudyCommand(e),
		newStatsCommand(e),
		newExportCommand(e),
		newImportCommand(e),
		newTokenCommand(e),
	)
	return root
}

// loadConfig reads configuration and sets up logging to errOut.
func (e *env) loadConfig() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg, err := config.LoadFile(e.configPath)
	if err != nil {
		return nil, err
	}
	if e.logLevel != "" {
		cfg.Server.LogLevel = e.logLevel
	}
	e.log, err = logger.SetupWithWriter(cfg.Server, e.errOut)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	e.cfg = cfg
	return cfg, nil
}

// open returns the application, opening the database on first use.
func (e *env) open(ctx context.Context, opts ...app.Option) (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, cfg, e.log, opts...)
	if err != nil {
		return nil, err
	}
	e.app = a
	return a, nil
}

func (e *env) close() error {
	if e.app == nil {
		return nil
	}
	err := e.app.Close()
	e.app = nil
	return err
}

func (e *env) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.out, format, args...)
}

func (e *env) println(args ...any) {
	_, _ = fmt.Fprintln(e.out, args...)
}

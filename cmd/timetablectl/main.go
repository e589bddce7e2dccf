// Command timetablectl edits the stored timetable from the terminal using the
// same storage backend and services as the API server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/timetable-editor/internal/bootstrap"
	"github.com/noah-isme/timetable-editor/pkg/config"
)

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the global flags and the session opened for a command.
type app struct {
	loadConfig func() (*config.Config, error)
	verbose    bool
	driver     string

	cfg     *config.Config
	logger  *zap.Logger
	backend *bootstrap.Backend
	svc     *bootstrap.Services
}

func newRootCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	a := &app{loadConfig: loadConfig}

	root := &cobra.Command{
		Use:   "timetablectl",
		Short: "Edit the weekly course timetable",
		Long: `timetablectl reads and edits the timetable held in the configured storage
backend (STORAGE_DRIVER). Changes are saved immediately, exactly as the API
server saves them.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.driver, "storage", "", "override STORAGE_DRIVER (file, sqlite, postgres, redis)")

	root.AddCommand(
		a.templatesCmd(),
		a.coursesCmd(),
		a.gridCmd(),
		a.agendaCmd(),
		a.exportCmd(),
		a.resetCmd(),
	)
	return root
}

// open loads configuration and initialises the services.
func (a *app) open(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.driver != "" {
		cfg.Storage.Driver = a.driver
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logr, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	backend, err := bootstrap.OpenBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}
	svc, err := bootstrap.NewServices(ctx, cfg, backend.Repo, logr, nil)
	if err != nil {
		_ = backend.Close()
		return err
	}

	a.cfg, a.logger, a.backend, a.svc = cfg, logr, backend, svc
	return nil
}

func (a *app) close() {
	if a.svc != nil {
		a.svc.Notices.Close()
	}
	if a.backend != nil {
		if err := a.backend.Close(); err != nil && a.logger != nil {
			a.logger.Warn("failed to close storage backend", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	a.svc, a.backend, a.logger = nil, nil, nil
}

// run opens the session around fn.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.open(cmd.Context()); err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args)
	}
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

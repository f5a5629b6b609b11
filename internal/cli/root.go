// Package cli is the portfolio command line: it serves the API, seeds and
// lists the sqlite store, and prints content straight from the configured
// source.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cobbinma/portfolio/internal/config"
	"github.com/cobbinma/portfolio/internal/logger"
	"github.com/cobbinma/portfolio/internal/service"
	"github.com/cobbinma/portfolio/internal/source"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by every subcommand once the persistent pre-run
// has loaded the configuration.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "portfolio",
		Short:        "Portfolio content API and tools",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./portfolio.yaml)")

	cmd.AddCommand(
		serveCmd(a),
		seedCmd(a),
		entriesCmd(a),
		projectsCmd(a),
		homeCmd(a),
		hashSecretCmd(),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}

	l, err := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidLogLevel, err)
	}

	if cfg.File != "" {
		l.Debug("using config file", slog.String("path", cfg.File))
	}

	a.cfg = cfg
	a.logger = l
	return nil
}

// openService validates the config and builds the service over the
// configured source. The caller must Close the returned set.
func (a *app) openService() (*service.PortfolioService, *source.Set, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, nil, err
	}

	set, err := source.Open(a.cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}

	svc := service.NewPortfolioService(set.Delivery, set.Preview, service.PortfolioConfig{
		HomeID:     a.cfg.Pages.Home,
		ProjectsID: a.cfg.Pages.Projects,
		Include:    a.cfg.Include,
	}, a.logger)
	return svc, set, nil
}

// Package main provides reportctl, a terminal front end for reporting Lens
// publications.
package main

import (
	"fmt"
	"os"

	"github.com/patrickwarner/pubreport/internal/lens"
	"github.com/patrickwarner/pubreport/internal/observability"
	"github.com/patrickwarner/pubreport/internal/report"
	"github.com/patrickwarner/pubreport/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what the subcommands share. newBackend is swapped in tests.
type app struct {
	configPath string
	verbose    bool
	newBackend func(cfg cliConfig, logger *zap.Logger) report.Backend
}

func lensBackend(cfg cliConfig, logger *zap.Logger) report.Backend {
	return lens.NewClient(cfg.APIURL, cfg.Timeout, logger, observability.NewNoOpRegistry())
}

// NewRootCmd creates the root command for reportctl.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{newBackend: lensBackend})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reportctl",
		Short: "Report Lens publications from the terminal",
		Long: `reportctl previews a Lens publication and reports it for a policy violation.

Credentials and the API endpoint are read from ` + defaultConfigPath() + `
unless --config points elsewhere.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath(), "Path to the configuration file")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newShowCmd(a))
	cmd.AddCommand(newSubmitCmd(a))
	cmd.AddCommand(newReasonsCmd())

	return cmd
}

// setup loads the configuration and builds the report service.
func (a *app) setup() (cliConfig, *report.Service, error) {
	cfg, err := loadCLIConfig(a.configPath)
	if err != nil {
		return cfg, nil, err
	}

	logger := zap.NewNop()
	if a.verbose {
		if logger, err = observability.InitStderrLogger("reportctl"); err != nil {
			return cfg, nil, fmt.Errorf("init logger: %w", err)
		}
	}

	svc := report.NewService(a.newBackend(cfg, logger), nil, report.ParseReasonPolicy(cfg.ReasonPolicy), nil, logger, observability.NewNoOpRegistry())
	return cfg, svc, nil
}

// viewer is the signed-in identity from the configuration, or nil.
func (cfg cliConfig) viewer() *session.Session {
	if cfg.Address == "" || cfg.AccessToken == "" {
		return nil
	}
	return &session.Session{Address: cfg.Address, AccessToken: cfg.AccessToken}
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}

package main

import (
	"fmt"

	"github.com/patrickwarner/pubreport/internal/report"
	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <publication-id>",
		Short: "Print a publication as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := a.setup()
			if err != nil {
				return err
			}
			target, err := report.ParseTarget(args[0])
			if err != nil {
				return err
			}

			res, err := svc.LoadPublication(cmd.Context(), target, cfg.viewer())
			if err != nil {
				return fmt.Errorf("failed to load post: %w", err)
			}
			return writePublication(cmd.OutOrStdout(), res)
		},
	}
}

func newReasonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reasons",
		Short: "List the report reasons and sub-reasons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeReasons(cmd.OutOrStdout(), report.DefaultCatalog())
		},
	}
}

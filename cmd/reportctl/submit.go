package main

import (
	"errors"
	"fmt"

	"github.com/patrickwarner/pubreport/internal/report"
	"github.com/spf13/cobra"
)

func newSubmitCmd(a *app) *cobra.Command {
	var (
		comment   string
		reason    string
		subreason string
	)

	cmd := &cobra.Command{
		Use:   "submit <publication-id>",
		Short: "Report a publication",
		Long: `Report a publication for a policy violation.

The comment is optional and limited to 260 characters. Whether --reason and
--subreason are sent depends on reason_policy in the configuration file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := a.setup()
			if err != nil {
				return err
			}
			viewer := cfg.viewer()
			if viewer == nil {
				return fmt.Errorf("%w: set address and access_token in %s", report.ErrNotSignedIn, a.configPath)
			}
			target, err := report.ParseTarget(args[0])
			if err != nil {
				return err
			}

			form := report.Form{Reason: reason, Subreason: subreason}
			if cmd.Flags().Changed("comment") {
				form.AdditionalComments = &comment
			}

			sub := svc.Submit(cmd.Context(), viewer, target, form)
			switch {
			case len(sub.FieldErrors) > 0:
				errs := make([]error, 0, len(sub.FieldErrors))
				for _, fe := range sub.FieldErrors {
					errs = append(errs, fmt.Errorf("%s: %s", fe.Field, fe.Message))
				}
				return errors.Join(errs...)
			case sub.State == report.StateFailed:
				return fmt.Errorf("failed to report: %w", sub.Err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Reported %s\n", target.PublicationID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&comment, "comment", "c", "", "Additional comments (max 260 characters)")
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Reason category, e.g. SPAM")
	cmd.Flags().StringVarP(&subreason, "subreason", "s", "", "Sub-reason, e.g. FAKE_ENGAGEMENT")

	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/temporal/workflows"
)

func newSubmitCmd(dial dialFunc) *cobra.Command {
	var (
		file, by  string
		autoDraft bool
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Start a submission workflow for a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var p domain.PositionRiskProfile
			if err := readJSON(cmd, file, &p); err != nil {
				return err
			}
			if err := domain.ValidateProfileShape(p); err != nil {
				return err
			}
			q, closeFn, err := dial()
			if err != nil {
				return err
			}
			defer closeFn()

			sum, err := q.StartSubmission(cmd.Context(), workflows.SubmitInput{
				Profile:                p,
				SubmittedBy:            by,
				AutoDraftJustification: autoDraft,
			})
			if err != nil {
				return fmt.Errorf("failed to start workflow: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), sum)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "profile JSON file, - for stdin (required)")
	cmd.Flags().StringVar(&by, "by", "", "submitter identity (required)")
	cmd.Flags().BoolVar(&autoDraft, "auto-draft", false, "draft the periodicity justification when missing")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func newStatusCmd(dial dialFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status WORKFLOW_ID",
		Short: "Show the state of a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, closeFn, err := dial()
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := q.GetWorkflowState(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get state: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

// newConfirmCmd builds "confirm" when acknowledged is true and "decline"
// otherwise.
func newConfirmCmd(dial dialFunc, acknowledged bool) *cobra.Command {
	use, short := "confirm", "Acknowledge the VLP breaches of a submission"
	if !acknowledged {
		use, short = "decline", "Decline the VLP breaches of a submission"
	}
	var by, reason string
	cmd := &cobra.Command{
		Use:   use + " WORKFLOW_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, closeFn, err := dial()
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := q.SubmitConfirmation(cmd.Context(), args[0], policy.Confirmation{
				Acknowledged: acknowledged,
				By:           by,
				Reason:       reason,
			})
			if err != nil {
				return fmt.Errorf("update failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "update result: %s\n", res)
			return nil
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "operator identity (required)")
	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded with the answer")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

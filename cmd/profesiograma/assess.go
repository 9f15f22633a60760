package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sgsst/profesiograma-go/internal/controls"
	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/gtc45"
	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/vlp"
)

var errRejected = errors.New("profile rejected")

func newScoreCmd() *cobra.Command {
	var nd, ne, nc int
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute NP, NR and the intervention level of a factor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				d *domain.Deficiency
				e *domain.Exposure
				c *domain.Consequence
			)
			if cmd.Flags().Changed("nd") {
				d = domain.Deficiency(nd).Ptr()
			}
			if cmd.Flags().Changed("ne") {
				e = domain.Exposure(ne).Ptr()
			}
			if cmd.Flags().Changed("nc") {
				c = domain.Consequence(nc).Ptr()
			}
			return printJSON(cmd.OutOrStdout(), gtc45.Score(d, e, c))
		},
	}
	cmd.Flags().IntVar(&nd, "nd", 0, "deficiency level (2, 6 or 10)")
	cmd.Flags().IntVar(&ne, "ne", 0, "exposure level (1 to 4)")
	cmd.Flags().IntVar(&nc, "nc", 0, "consequence level (10, 25, 60 or 100)")
	return cmd
}

func newVLPCmd() *cobra.Command {
	var classification, measured, limit string
	cmd := &cobra.Command{
		Use:   "vlp",
		Short: "Compare a measured value against the exposure limit of a classification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, ok := domain.ParseClassification(classification)
			if !ok {
				return fmt.Errorf("unknown classification %q", classification)
			}
			return printJSON(cmd.OutOrStdout(), vlp.CheckAssessment(domain.FactorAssessment{
				Classification:   c,
				MeasuredValue:    measured,
				PermissibleLimit: limit,
			}))
		},
	}
	cmd.Flags().StringVar(&classification, "classification", "", "classification code or label (required)")
	cmd.Flags().StringVar(&measured, "measured", "", "measured value, e.g. \"92 dB\"")
	cmd.Flags().StringVar(&limit, "limit", "", "limit for classifications without a tabulated VLP")
	_ = cmd.MarkFlagRequired("classification")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the pre-save checks on a profile",
		Long: `Run the pre-save checks on a profile read from a JSON file.

Exits non-zero when the profile is rejected. A profile with VLP breaches is
reported as requires_confirmation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var p domain.PositionRiskProfile
			if err := readJSON(cmd, file, &p); err != nil {
				return err
			}
			if err := domain.ValidateProfileShape(p); err != nil {
				return err
			}
			out := policy.NewValidator().Validate(p)
			if err := printJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if out.Decision == policy.DecisionRejected {
				return errRejected
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "profile JSON file, - for stdin (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newControlsCmd() *cobra.Command {
	var file, hazard string
	cmd := &cobra.Command{
		Use:   "controls",
		Short: "Fill the empty control fields of a factor assessment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var a domain.FactorAssessment
			if err := readJSON(cmd, file, &a); err != nil {
				return err
			}
			rep := controls.Apply(&a, hazard)
			return printJSON(cmd.OutOrStdout(), map[string]any{"assessment": a, "report": rep})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "factor assessment JSON file, - for stdin (required)")
	cmd.Flags().StringVar(&hazard, "hazard", "", "hazard name; defaults to the factor name")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

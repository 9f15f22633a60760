// Package mcpserver exposes the risk assessment engine via MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sgsst/profesiograma-go/internal/catalog"
	"github.com/sgsst/profesiograma-go/internal/controls"
	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/gtc45"
	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/temporal/querier"
	"github.com/sgsst/profesiograma-go/internal/vlp"
)

// RegisterTools registers the assessment tools on the given server. When q
// is non-nil the submission tools are registered too.
func RegisterTools(server *mcp.Server, q querier.WorkflowQuerier) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "score_factor",
			Description: "Compute GTC-45 NP, NR, intervention level, acceptability and exposure level from ND, NE and NC",
		},
		scoreFactorHandler,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "check_vlp",
			Description: "Compare a measured value against the permissible exposure limit (VLP) of a hazard classification",
		},
		checkVLPHandler,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "validate_profile",
			Description: "Validate a position risk profile before save: periodicity, justification, factor levels, exams and VLP breaches",
		},
		validateProfileHandler(policy.NewValidator()),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "suggest_controls",
			Description: "Fill the empty control fields of a factor assessment with the predefined controls for the hazard",
		},
		suggestControlsHandler,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_classifications",
			Description: "List hazard classifications with their category, VLP and control profile",
		},
		listClassificationsHandler,
	)

	if q == nil {
		return
	}

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_submission_state",
			Description: "Get the state of a profile submission workflow",
		},
		getSubmissionStateHandler(q),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "answer_breach_confirmation",
			Description: "Acknowledge or decline the VLP breaches of a submission waiting for confirmation",
		},
		answerConfirmationHandler(q),
	)
}

type scoreInput struct {
	ND *int `json:"nd,omitempty" jsonschema:"deficiency level: 2, 6 or 10"`
	NE *int `json:"ne,omitempty" jsonschema:"exposure level: 1 to 4"`
	NC *int `json:"nc,omitempty" jsonschema:"consequence level: 10, 25, 60 or 100"`
}

func scoreFactorHandler(_ context.Context, _ *mcp.CallToolRequest, input scoreInput) (*mcp.CallToolResult, any, error) {
	var (
		nd *domain.Deficiency
		ne *domain.Exposure
		nc *domain.Consequence
	)
	if input.ND != nil {
		nd = domain.Deficiency(*input.ND).Ptr()
	}
	if input.NE != nil {
		ne = domain.Exposure(*input.NE).Ptr()
	}
	if input.NC != nil {
		nc = domain.Consequence(*input.NC).Ptr()
	}
	return textResult(gtc45.Score(nd, ne, nc))
}

type checkVLPInput struct {
	Classification   string `json:"classification" jsonschema:"classification code or Spanish label, e.g. noise or Ruido"`
	MeasuredValue    string `json:"measured_value" jsonschema:"measured value with optional unit, e.g. 90 dB"`
	PermissibleLimit string `json:"permissible_limit,omitempty" jsonschema:"limit used when the classification has no tabulated VLP"`
}

func checkVLPHandler(_ context.Context, _ *mcp.CallToolRequest, input checkVLPInput) (*mcp.CallToolResult, any, error) {
	c, ok := domain.ParseClassification(input.Classification)
	if !ok {
		return errorResult(fmt.Sprintf("unknown classification %q", input.Classification)), nil, nil
	}
	return textResult(vlp.CheckAssessment(domain.FactorAssessment{
		Classification:   c,
		MeasuredValue:    input.MeasuredValue,
		PermissibleLimit: input.PermissibleLimit,
	}))
}

type validateInput struct {
	Profile domain.PositionRiskProfile `json:"profile"`
}

func validateProfileHandler(v *policy.Validator) mcp.ToolHandlerFor[validateInput, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, any, error) {
		if err := domain.ValidateProfileShape(input.Profile); err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(v.Validate(input.Profile))
	}
}

type suggestControlsInput struct {
	HazardName string                  `json:"hazard_name"`
	Assessment domain.FactorAssessment `json:"assessment"`
}

func suggestControlsHandler(_ context.Context, _ *mcp.CallToolRequest, input suggestControlsInput) (*mcp.CallToolResult, any, error) {
	a := input.Assessment
	rep := controls.Apply(&a, input.HazardName)
	return textResult(map[string]any{"assessment": a, "report": rep})
}

type listClassificationsInput struct {
	Category string `json:"category,omitempty" jsonschema:"optional category filter, e.g. fisico or physical"`
}

func listClassificationsHandler(_ context.Context, _ *mcp.CallToolRequest, input listClassificationsInput) (*mcp.CallToolResult, any, error) {
	var category domain.HazardCategory
	if input.Category != "" {
		c, ok := domain.ParseCategory(input.Category)
		if !ok {
			return errorResult(fmt.Sprintf("unknown category %q", input.Category)), nil, nil
		}
		category = c
	}
	return textResult(catalog.Entries(category))
}

type workflowIDInput struct {
	WorkflowID string `json:"workflow_id"`
}

func getSubmissionStateHandler(q querier.WorkflowQuerier) mcp.ToolHandlerFor[workflowIDInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input workflowIDInput) (*mcp.CallToolResult, any, error) {
		if input.WorkflowID == "" {
			return errorResult("workflow_id is required"), nil, nil
		}

		result, err := q.GetWorkflowState(ctx, input.WorkflowID)
		if err != nil {
			return nil, nil, fmt.Errorf("get_submission_state: %w", err)
		}

		return textResult(result)
	}
}

type confirmationInput struct {
	WorkflowID   string `json:"workflow_id"`
	Acknowledged bool   `json:"acknowledged"`
	By           string `json:"by,omitempty" jsonschema:"operator answering the confirmation"`
	Reason       string `json:"reason,omitempty"`
}

func answerConfirmationHandler(q querier.WorkflowQuerier) mcp.ToolHandlerFor[confirmationInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input confirmationInput) (*mcp.CallToolResult, any, error) {
		if input.WorkflowID == "" || input.By == "" {
			return errorResult("workflow_id and by are required"), nil, nil
		}

		c := policy.Confirmation{Acknowledged: input.Acknowledged, By: input.By, Reason: input.Reason}
		result, err := q.SubmitConfirmation(ctx, input.WorkflowID, c)
		if err != nil {
			return nil, nil, fmt.Errorf("answer_breach_confirmation: %w", err)
		}

		return textResult(map[string]string{"result": result})
	}
}

func textResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

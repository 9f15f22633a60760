package querier

import (
	"context"

	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/temporal/workflows"
)

// WorkflowQuerier starts submissions, reads their state and forwards the
// operator's breach confirmation. Used by the HTTP API, the CLI and the MCP
// server.
type WorkflowQuerier interface {
	StartSubmission(ctx context.Context, input workflows.SubmitInput) (WorkflowSummary, error)
	ListWorkflows(ctx context.Context, opts ListOptions) ([]WorkflowSummary, error)
	GetWorkflowState(ctx context.Context, workflowID string) (*workflows.WorkflowResult, error)
	DescribeWorkflow(ctx context.Context, workflowID string) (*WorkflowDescription, error)
	SubmitConfirmation(ctx context.Context, workflowID string, c policy.Confirmation) (string, error)
}

// Package querier provides read access to Temporal workflow state.
package querier

import (
	"fmt"
	"strings"
	"time"

	"github.com/sgsst/profesiograma-go/internal/temporal/versioning"
)

// ListOptions controls filtering for ListWorkflows.
type ListOptions struct {
	// TaskQueue filters by task queue name. Empty means no filter.
	TaskQueue string
	// StatusFilter filters by workflow status (e.g. "Running", "Completed").
	StatusFilter string
	// PositionID limits the list to submissions of one position; 0 means all.
	PositionID int
	// PageSize limits the number of results.
	PageSize int
}

// Query renders the visibility query for the options. Only submission
// workflows are listed.
func (o ListOptions) Query() string {
	prefix := versioning.WorkflowIDPrefix
	if o.PositionID > 0 {
		prefix += fmt.Sprintf("%d-", o.PositionID)
	}
	parts := []string{fmt.Sprintf("WorkflowId STARTS_WITH %q", prefix)}
	if o.TaskQueue != "" {
		parts = append(parts, fmt.Sprintf("TaskQueue = %q", o.TaskQueue))
	}
	if o.StatusFilter != "" {
		parts = append(parts, fmt.Sprintf("ExecutionStatus = %q", o.StatusFilter))
	}
	return strings.Join(parts, " AND ")
}

func (o ListOptions) pageSize() int {
	if o.PageSize <= 0 {
		return 50
	}
	return o.PageSize
}

// WorkflowSummary is a lightweight overview of a workflow execution.
type WorkflowSummary struct {
	WorkflowID string    `json:"workflow_id"`
	RunID      string    `json:"run_id"`
	Status     string    `json:"status"`
	StartTime  time.Time `json:"start_time"`
	CloseTime  time.Time `json:"close_time,omitempty"`
	TaskQueue  string    `json:"task_queue"`
}

// WorkflowDescription provides detailed info about a workflow execution.
type WorkflowDescription struct {
	WorkflowSummary
	SearchAttributes map[string]any `json:"search_attributes,omitempty"`
}

// Package queues defines per-queue worker configuration for task-queue partitioning.
package queues

import (
	"fmt"
	"strings"

	"go.temporal.io/sdk/worker"

	"github.com/sgsst/profesiograma-go/internal/temporal/versioning"
)

// QueueConfig holds worker options for a single task queue.
type QueueConfig struct {
	Name    string
	Options worker.Options
	// Workflows reports whether the queue hosts workflow tasks.
	Workflows bool
	// Activities lists the activity names the queue executes.
	Activities []string
}

// DefaultConfigs returns the standard per-queue worker options.
//
//   - QueueSubmit: submission workflows and justification drafts
//   - QueuePersist: saves to the SST backend, tight concurrency
func DefaultConfigs() map[string]QueueConfig {
	return map[string]QueueConfig{
		versioning.QueueSubmit: {
			Name: versioning.QueueSubmit,
			Options: worker.Options{
				MaxConcurrentActivityExecutionSize:     10,
				MaxConcurrentWorkflowTaskExecutionSize: 10,
			},
			Workflows:  true,
			Activities: []string{"DraftEmoJustification"},
		},
		versioning.QueuePersist: {
			Name: versioning.QueuePersist,
			Options: worker.Options{
				MaxConcurrentActivityExecutionSize:     2,
				MaxConcurrentWorkflowTaskExecutionSize: 1,
			},
			Activities: []string{"PersistProfile"},
		},
	}
}

// ParseQueues resolves queue names (e.g. "submit", "persist") into full
// task queue names. Accepts both short names ("submit") and full names
// ("profesiograma-submit"). Returns an error for unknown queues. An empty
// list yields every queue.
func ParseQueues(names []string) ([]string, error) {
	shortNames := map[string]string{
		"submit":  versioning.QueueSubmit,
		"persist": versioning.QueuePersist,
	}
	fullNames := map[string]bool{
		versioning.QueueSubmit:  true,
		versioning.QueuePersist: true,
	}

	seen := make(map[string]bool)
	var result []string
	for _, part := range names {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if full, ok := shortNames[name]; ok {
			name = full
		}
		if !fullNames[name] {
			return nil, fmt.Errorf("unknown queue %q", name)
		}
		if !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	if len(result) == 0 {
		return []string{versioning.QueueSubmit, versioning.QueuePersist}, nil
	}
	return result, nil
}

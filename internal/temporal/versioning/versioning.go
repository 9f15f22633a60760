// Package versioning defines workflow versions and task queue names.
package versioning

const (
	// Workflow versions for determinism tracking.
	SubmitProfileV1 = "submit-profile-v1"

	// Task queues. Saves run on their own queue so that the write path can
	// be scaled and permissioned apart from validation and drafting.
	QueueSubmit  = "profesiograma-submit"
	QueuePersist = "profesiograma-persist"

	// WorkflowIDPrefix starts every submission workflow id.
	WorkflowIDPrefix = "profesiograma-submit-"
)

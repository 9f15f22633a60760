package agui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sgsst/profesiograma-go/internal/temporal/querier"
	"github.com/sgsst/profesiograma-go/internal/temporal/workflows"
)

// StreamConfig controls SSE stream behavior.
type StreamConfig struct {
	PollInterval time.Duration
	MaxDuration  time.Duration
}

// DefaultConfig returns sensible defaults. MaxDuration covers the
// confirmation timeout of a submission.
func DefaultConfig() StreamConfig {
	return StreamConfig{
		PollInterval: 2 * time.Second,
		MaxDuration:  workflows.ConfirmationTimeout,
	}
}

// StreamHandler serves SSE events for a submission's state changes.
func StreamHandler(q querier.WorkflowQuerier, cfg StreamConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wfID := r.PathValue("id")
		if wfID == "" {
			http.Error(w, "workflow id required", http.StatusBadRequest)
			return
		}

		rc := http.NewResponseController(w)
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		ctx, cancel := context.WithTimeout(r.Context(), cfg.MaxDuration)
		defer cancel()

		emit := func(t EventType, data any) {
			writeSSE(w, rc, Event{Type: t, Timestamp: time.Now().UTC(), WorkflowID: wfID, Data: data})
		}

		emit(EventRunStarted, nil)

		result, err := q.GetWorkflowState(ctx, wfID)
		if err != nil {
			emit(EventRunError, ErrorData{Message: err.Error()})
			return
		}
		emit(EventStateSnapshot, StateSnapshotData{Phase: result.State.Phase, State: result.State})
		if result.State.AwaitingConfirmation() {
			emit(EventCustom, confirmationData(result.State))
		}
		if finished(result) {
			emit(EventRunFinished, map[string]any{"reason": string(result.Reason)})
			return
		}

		ticker := time.NewTicker(cfg.PollInterval)
		defer ticker.Stop()

		prev := result.State
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			result, err = q.GetWorkflowState(ctx, wfID)
			if err != nil {
				emit(EventRunError, ErrorData{Message: err.Error()})
				return
			}
			cur := result.State

			if cur.Phase != prev.Phase {
				emit(EventStepFinished, StepData{Phase: prev.Phase})
				emit(EventStepStarted, StepData{Phase: cur.Phase})
				if cur.AwaitingConfirmation() {
					emit(EventCustom, confirmationData(cur))
				}
			}
			if patches := computePatches(prev, cur); len(patches) > 0 {
				emit(EventStateDelta, StateDeltaData{Phase: cur.Phase, Patches: patches})
			}
			if finished(result) {
				emit(EventRunFinished, map[string]any{"reason": string(result.Reason)})
				return
			}
			prev = cur
		}
	}
}

func finished(r *workflows.WorkflowResult) bool {
	return r.Reason != "" || r.State.Phase == workflows.PhaseDone
}

func confirmationData(s workflows.SubmissionState) ConfirmationData {
	d := ConfirmationData{Name: CustomConfirmationRequired, Breaches: []string{}}
	if s.Outcome != nil {
		for _, b := range s.Outcome.Breaches {
			d.Breaches = append(d.Breaches, b.FactorName+": "+b.Summary())
		}
		d.Details = s.Outcome.Details
	}
	return d
}

// computePatches compares the fields the form reacts to. Field-specific
// comparison avoids a generic deep-diff dependency.
func computePatches(prev, cur workflows.SubmissionState) []Patch {
	var out []Patch
	diff := func(path string, changed bool, value any, present bool) {
		switch {
		case !changed:
		case !present:
			out = append(out, Patch{Op: "remove", Path: path})
		default:
			out = append(out, Patch{Op: "replace", Path: path, Value: value})
		}
	}

	diff("/phase", prev.Phase != cur.Phase, cur.Phase, true)
	diff("/drafted_justification", prev.DraftedJustification != cur.DraftedJustification, cur.DraftedJustification, true)
	diff("/outcome", decision(prev) != decision(cur), cur.Outcome, cur.Outcome != nil)
	diff("/confirmation_requested_at", (prev.ConfirmationRequestedAt == nil) != (cur.ConfirmationRequestedAt == nil),
		cur.ConfirmationRequestedAt, cur.ConfirmationRequestedAt != nil)
	diff("/confirmation", (prev.Confirmation == nil) != (cur.Confirmation == nil), cur.Confirmation, cur.Confirmation != nil)
	diff("/saved", savedVersion(prev) != savedVersion(cur), cur.Saved, cur.Saved != nil)
	diff("/error", errText(prev) != errText(cur), cur.Error, cur.Error != nil)
	return out
}

func decision(s workflows.SubmissionState) string {
	if s.Outcome == nil {
		return ""
	}
	return string(s.Outcome.Decision)
}

func savedVersion(s workflows.SubmissionState) string {
	if s.Saved == nil {
		return ""
	}
	return s.Saved.Version
}

func errText(s workflows.SubmissionState) string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}

func writeSSE(w http.ResponseWriter, rc *http.ResponseController, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
	_ = rc.Flush()
}

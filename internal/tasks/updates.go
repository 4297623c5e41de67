package tasks

import (
	"fmt"

	"github.com/desertthunder/fstat/internal/models"
)

// ProgressUpdate represents a progress event during a lookup.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline state entered
	Step    int    // Current step number within the run or batch
	Total   int    // Total steps
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Phase enumerates pipeline states. A run moves Start → Resolving → Aggregating → Done, or to Failed from any state.
type Phase int

const (
	Start Phase = iota
	Resolving
	Aggregating
	Done
	Failed
	BatchLookup
)

// runSteps is the number of forward transitions after Start.
const runSteps = 3

func (p Phase) String() string {
	switch p {
	case Start:
		return "start"
	case Resolving:
		return "resolving"
	case Aggregating:
		return "aggregating"
	case Done:
		return "done"
	case Failed:
		return "failed"
	case BatchLookup:
		return "batch_lookup"
	default:
		return ""
	}
}

func startUpdate(externalID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Start,
		Step:    0,
		Total:   runSteps,
		Message: fmt.Sprintf("Looking up %s...", externalID),
		Data:    externalID,
	}
}

func resolvingUpdate(externalID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resolving,
		Step:    1,
		Total:   runSteps,
		Message: "Searching FACEIT for the player...",
		Data:    externalID,
	}
}

func aggregatingUpdate(handle string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Aggregating,
		Step:    2,
		Total:   runSteps,
		Message: fmt.Sprintf("Fetching profile and stats for %s...", handle),
		Data:    handle,
	}
}

func doneUpdate(stats *models.NormalizedStats) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    runSteps,
		Total:   runSteps,
		Message: fmt.Sprintf("Found %s stats", stats.Variant),
		Data:    stats,
	}
}

func failedUpdate(step int, f *Failure) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Failed,
		Step:    step,
		Total:   runSteps,
		Message: f.Message,
		Data:    f,
	}
}

func batchUpdate(step, total int, r LookupResult) ProgressUpdate {
	msg := fmt.Sprintf("%s: ok", r.ExternalID)
	if r.Failure != nil {
		msg = fmt.Sprintf("%s: %s", r.ExternalID, r.Failure.Message)
	}
	return ProgressUpdate{
		Phase:   BatchLookup,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    r,
	}
}

package tasks

import (
	"fmt"

	"github.com/desertthunder/recon/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ReadRows Phase = iota
	ReconcileRows
	Summarize
)

func (p Phase) String() string {
	switch p {
	case ReadRows:
		return "read_rows"
	case ReconcileRows:
		return "reconcile_rows"
	case Summarize:
		return "summarize"
	default:
		return ""
	}
}

func startImportUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadRows,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Importing %d rows...", total),
	}
}

func rowReconciledUpdate(step, total int, res ImportRowResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReconcileRows,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ line %d → primary %d", step, total, res.Line, res.View.PrimaryContactID),
		Data:    res.View,
	}
}

func rowFailedUpdate(step, total int, res ImportRowResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReconcileRows,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ line %d: %v", step, total, res.Line, res.Error),
	}
}

func summarizeUpdate(clusters []int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Summarize,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolving %d clusters...", len(clusters)),
	}
}

func describeIdentity(id models.Identity) string {
	return fmt.Sprintf("email=%s phone=%s", id.Email, id.PhoneNumber)
}

// package tasks implements bulk operations that drive a reconciliation backend.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"github.com/charmbracelet/log"

	"github.com/desertthunder/recon/internal/services"
	"github.com/desertthunder/recon/internal/shared"
)

// ImportEngine feeds observed identities to a [services.Reconciler].
type ImportEngine struct {
	reconciler services.Reconciler
	logger     *log.Logger
}

// NewImportEngine creates an [ImportEngine] that reconciles through r.
func NewImportEngine(r services.Reconciler, logger *log.Logger) *ImportEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ImportEngine{
		reconciler: r,
		logger:     shared.WithLogger(logger, "component", "import"),
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ImportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// package services defines interface Reconciler for reaching a reconciliation backend
//
// in process (reconcile.Engine) or over HTTP ([APIService])
package services

import (
	"context"

	"github.com/desertthunder/recon/internal/models"
)

// Reconciler resolves an observed identity into its cluster.
//
// Both the in-process engine and [APIService] implement it, so callers such as bulk import and the CLI
// work the same against a local database or a running server.
type Reconciler interface {
	// Reconcile attaches identity to its cluster and returns the resulting view.
	Reconcile(ctx context.Context, identity models.Identity) (*models.ClusterView, error)

	// Cluster returns the cluster containing contact id.
	Cluster(ctx context.Context, id int64) (*models.Cluster, error)
}

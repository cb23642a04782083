// package server contains middleware & handlers for the identity reconciliation web service
package server

import (
	"context"
	"net/http"

	"github.com/desertthunder/recon/internal/models"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows which path patterns it serves.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Service is the reconciliation backend the HTTP handlers call into.
//
// [reconcile.Engine] implements it.
type Service interface {
	Reconcile(ctx context.Context, identity models.Identity) (*models.ClusterView, error)
	Cluster(ctx context.Context, id int64) (*models.Cluster, error)
	Ping(ctx context.Context) error
}

package server

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/recon/internal/shared"
)

// BasicRouter is a simple HTTP router implementing the [Router] interface.
//
// Uses [http.ServeMux] internally for routing, so path patterns may carry wildcards such as /clusters/{id}.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	routes      []string
}

var _ Router = (*BasicRouter)(nil)

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
	}
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the specified HTTP method and path.
//
// Requests with any other method get a 405 with an Allow header. The method check runs inside the
// middleware stack so rejected requests are still logged.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	methodHandler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !strings.EqualFold(req.Method, method) {
			w.Header().Set("Allow", method)
			writeJSON(w, http.StatusMethodNotAllowed, messageResponse{Message: "Method not allowed"})
			return
		}
		handler.ServeHTTP(w, req)
	})

	r.mux.Handle(path, r.Apply(methodHandler))
	r.routes = append(r.routes, method+" "+path)
}

// Handler registers a custom Handler implementation.
//
// All routes returned by [Handler.Routes] are registered with this handler.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)

	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
		r.routes = append(r.routes, route)
	}
}

// Routes lists every registered pattern in registration order.
func (r *BasicRouter) Routes() []string {
	return append([]string(nil), r.routes...)
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}

// NewRouter wires every endpoint of the service onto a [BasicRouter].
func NewRouter(svc Service, logger *log.Logger) *BasicRouter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	logger = shared.WithLogger(logger, "component", "server")

	r := NewBasicRouter()
	r.Use(RequestID(), Logging(logger), Recover(logger))

	r.Handle(http.MethodPost, "/identify", NewIdentifyHandler(svc, logger))
	r.Handle(http.MethodGet, "/clusters/{id}", NewClusterHandler(svc, logger))
	r.Handler(NewStatusHandler(svc))

	return r
}

// Package server provides the HTTP transport for the reconciliation engine.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
// [NewRouter] assembles the full service: request ids, request logging and panic recovery around
// every route.
//
// # Routes
//
//	POST /identify       → reconcile an email/phone pair, returns {"contact": ClusterView}
//	GET  /clusters/{id}  → the cluster containing a contact, with its member rows
//	GET  /               → status banner
//	GET  /healthz        → database ping
//
// # Errors
//
// Handlers never expose internal errors. Missing identifiers map to 400 {"message":"Email or Phone required"},
// unknown contacts to 404, and everything else to 500 {"error":"Internal Server Error"}.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server

// Package services defines the [Reconciler] interface and an HTTP client implementation of it.
//
// # Remote Reconciliation
//
// [APIService] talks to a running recon server. [APIService.Reconcile] posts to /identify,
// [APIService.Cluster] reads /clusters/{id} and [APIService.Health] checks /healthz.
//
// # Error Handling
//
// Responses are mapped back onto the shared sentinel errors:
//   - 400 : [shared.ErrInvalidInput]
//   - 404 : [shared.ErrContactNotFound]
//   - 503 : [shared.ErrServiceUnavailable]
//   - any other non-2xx or transport failure : [shared.ErrAPIRequest]
package services

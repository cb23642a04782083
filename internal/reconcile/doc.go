// Package reconcile resolves observed (email, phone number) pairs into identity clusters.
//
// A request flows through four steps that share one transaction:
//
//   - match: find every live contact sharing the email or the phone number
//   - resolve: pick the oldest primary among the matched clusters and fold the others into it
//   - write: insert a new primary, or a single secondary when the pair brings new information
//   - assemble: build the deduplicated [models.ClusterView] from the re-fetched cluster
//
// The database is opened with BEGIN IMMEDIATE transactions (see [shared.OpenDatabase]), so two requests
// for the same unseen pair run one after the other and the second attaches to the first one's cluster.
package reconcile

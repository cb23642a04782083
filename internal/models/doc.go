// Package models defines the domain entities of the identity reconciliation service.
//
// The package contains two categories of types:
//
// 1. Persistent Entities: rows stored by the repositories package
//   - [Contact] : one observed (email, phone) record with its role in a cluster
//
// 2. Values and Views: data passed between layers
//   - [Optional] : an identifier that may be absent; empty and absent are distinct states
//   - [Identity] : the (email, phone) pair submitted for reconciliation
//   - [ClusterView] : the deduplicated public view of one identity cluster
//   - [Cluster] : a cluster view together with its member rows, used by exports and lookups
//
// A cluster is a two-level forest: exactly one [Primary] contact (the oldest member) and any number of
// [Secondary] contacts whose LinkedID points directly at it.
package models

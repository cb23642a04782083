// package models defines the data model for the identity reconciliation service
package models

import (
	"time"
)

// Model defines the base interface for persistent models.
type Model interface {
	Key() int64         // Key returns the unique identifier for this model
	Created() time.Time // Created returns when this model was created
	Updated() time.Time // Updated returns when this model was last updated
	Validate() error    // Validate checks if the model's data is valid and returns an error if not
}

var _ Model = Contact{}

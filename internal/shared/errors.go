package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Reconciliation errors
	ErrInvalidInput        = fmt.Errorf("invalid input")
	ErrPersistence         = fmt.Errorf("persistence failure")
	ErrInvariantViolation  = fmt.Errorf("cluster invariant violated")
	ErrContactNotFound     = fmt.Errorf("contact not found")
	ErrServiceUnavailable  = fmt.Errorf("service unavailable")
	ErrAPIRequest          = fmt.Errorf("API request failed")
	ErrMissingArgument     = fmt.Errorf("missing required argument")
	ErrInvalidArgument     = fmt.Errorf("invalid argument")
	ErrUnsupportedFormat   = fmt.Errorf("unsupported format")
	ErrMalformedImportFile = fmt.Errorf("malformed import file")
)

// Package dto contains data transfer objects for application layer use cases.
package dto

import "github.com/naclports/naclports/internal/domain/values"

// RunGateRequest encapsulates all inputs needed to run the presubmit gate.
type RunGateRequest struct {
	Trigger  values.Trigger
	Filters  FilterOptions
	Metadata RequestMetadata
}

// FilterOptions defines filters for check selection.
type FilterOptions struct {
	FilterExpression string
	IncludeCheckIDs  []string
	ExcludeCheckIDs  []string
}

// RequestMetadata contains metadata for request tracking.
type RequestMetadata struct {
	// RequestID uniquely identifies this request
	RequestID string
}

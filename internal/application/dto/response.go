package dto

import (
	"time"

	"github.com/naclports/naclports/internal/domain/presubmit"
)

// RunGateResponse contains the result of running the gate.
type RunGateResponse struct {
	// Result contains the per-check results and findings
	Result *presubmit.GateResult

	// Metadata contains response metadata
	Metadata ResponseMetadata
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	// RequestID from the original request
	RequestID string

	// ProcessedAt is when the request was processed
	ProcessedAt time.Time

	// Duration is how long the request took
	Duration time.Duration
}

// Package services contains domain services that encapsulate business
// logic spanning multiple domain objects. These services are stateless.
package services

import (
	"github.com/naclports/naclports/internal/domain/presubmit"
	"github.com/naclports/naclports/internal/domain/values"
)

// StatusAggregator determines check status from what a check produced.
type StatusAggregator struct{}

// NewStatusAggregator creates a new status aggregator service.
func NewStatusAggregator() *StatusAggregator {
	return &StatusAggregator{}
}

// AggregateCheckStatus determines a check's status.
//
// A check that could not be started is StatusError regardless of its
// findings. Otherwise any finding makes it StatusFail, and a check that
// reported nothing passes.
func (s *StatusAggregator) AggregateCheckStatus(findings []presubmit.Finding, startErr error) values.Status {
	if startErr != nil {
		return values.StatusError
	}
	if len(findings) > 0 {
		return values.StatusFail
	}
	return values.StatusPass
}

// AggregateGateStatus reduces check statuses to one gate status using
// Status precedence: Fail > Error > Skipped > Pass. A gate in which every
// check was skipped is skipped.
func (s *StatusAggregator) AggregateGateStatus(statuses []values.Status) values.Status {
	if len(statuses) == 0 {
		return values.StatusSkipped
	}

	worst := values.StatusPass
	allSkipped := true
	for _, st := range statuses {
		if st != values.StatusSkipped {
			allSkipped = false
		}
		if st == values.StatusSkipped {
			continue
		}
		if st.Precedence() > worst.Precedence() {
			worst = st
		}
	}

	if allSkipped {
		return values.StatusSkipped
	}
	return worst
}

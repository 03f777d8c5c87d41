package entity

import (
	"time"

	"github.com/google/uuid"
)

// BatchRange is the half-open corpus slice [Start, End) covered by one upload batch.
type BatchRange struct {
	Start int
	End   int
}

// BuildReport aggregates the outcome of one bulk index build. Batches finish
// in arbitrary order, so everything here is accumulated order-independently
// and FailedRanges is sorted only for presentation.
type BuildReport struct {
	BuildId          uuid.UUID
	Collection       string
	TotalRecords     int
	AttemptedBatches int
	CommittedBatches int
	CommittedRecords int
	FailedRanges     []BatchRange
	StartedAt        time.Time
	Duration         time.Duration
}

func (r *BuildReport) FailedBatches() int {
	return len(r.FailedRanges)
}

// Complete reports whether every batch committed. A partial build is still a
// usable collection, just with the failed ranges missing.
func (r *BuildReport) Complete() bool {
	return len(r.FailedRanges) == 0
}

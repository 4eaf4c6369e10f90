package application

import (
	"time"

	billing "energy-billing/internal/billing/domain"
)

// PeriodInitialized is emitted whenever a meter grid is (re)created for a period.
type PeriodInitialized struct {
	Meter      billing.MeterRef
	Period     billing.Period
	Cause      string
	OccurredAt time.Time
}

// PeriodReset is emitted when recording a reading discarded the data of another period.
type PeriodReset struct {
	Meter      billing.MeterRef
	Previous   billing.Period
	Period     billing.Period
	OccurredAt time.Time
}

// Initialization causes.
const (
	CauseExplicit  = "explicit"
	CauseRecord    = "record"
	CauseSetAt     = "set_at"
	CauseSimulated = "simulated"
)

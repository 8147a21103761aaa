package quota

import "time"

const (
	// MonthlyFreeLimit is the number of free tool invocations per calendar month.
	MonthlyFreeLimit = 10

	// Unlimited is returned by RemainingUses for premium callers (-1).
	Unlimited = -1

	// StorageKey is the fixed slot the usage blob is persisted under.
	StorageKey = "toolshub_usage"
)

// UsageRecord is the per-device usage blob persisted in client storage.
// InvocationCount is never negative; it is recomputed to zero whenever
// PeriodKey no longer matches the current calendar month.
type UsageRecord struct {
	PeriodKey         string    `json:"periodKey"`
	InvocationCount   int       `json:"invocationCount"`
	LastUsedAt        time.Time `json:"lastUsedAt"`
	DistinctToolsUsed []string  `json:"distinctToolsUsed"`
}

// HasUsed reports whether toolID is already in the distinct-tools set.
func (r UsageRecord) HasUsed(toolID string) bool {
	for _, id := range r.DistinctToolsUsed {
		if id == toolID {
			return true
		}
	}
	return false
}

// freshRecord returns a zeroed record for the given period.
func freshRecord(periodKey string) UsageRecord {
	return UsageRecord{
		PeriodKey:         periodKey,
		DistinctToolsUsed: []string{},
	}
}

package quota

import (
	"slices"
	"time"
)

// PremiumFunc reports whether the caller currently holds premium access.
// Premium use is neither capped nor counted against the free quota.
type PremiumFunc func() bool

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces the time source. Intended for tests and period math.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// Tracker enforces the monthly free usage limit for one device.
type Tracker struct {
	storage Storage
	premium PremiumFunc
	now     func() time.Time
}

// NewTracker creates a tracker over the given storage slot. The premium
// function may be nil, which treats the caller as a free user.
func NewTracker(storage Storage, premium PremiumFunc, opts ...Option) *Tracker {
	if storage == nil {
		panic("quota: Storage is required")
	}
	if premium == nil {
		premium = func() bool { return false }
	}

	t := &Tracker{
		storage: storage,
		premium: premium,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CurrentPeriodKey returns the deterministic key for the current calendar
// month, e.g. "2025-06".
func (t *Tracker) CurrentPeriodKey() string {
	return t.now().UTC().Format("2006-01")
}

// Load reads the persisted record, resetting it to a fresh zeroed record when
// its period no longer matches the current calendar month. The reset is the
// only migration path; unused quota does not carry over.
func (t *Tracker) Load() (UsageRecord, error) {
	record, ok, err := t.storage.Load()
	if err != nil {
		return UsageRecord{}, err
	}

	period := t.CurrentPeriodKey()
	if !ok || record.PeriodKey != period {
		record = freshRecord(period)
		if err := t.storage.Save(record); err != nil {
			return UsageRecord{}, err
		}
	}

	return record, nil
}

// CanUseTool reports whether a tool invocation is allowed right now.
// Premium callers are always allowed; free callers are allowed while the
// current period's invocation count is under the monthly limit.
func (t *Tracker) CanUseTool(toolID string) (bool, error) {
	if t.premium() {
		return true, nil
	}

	record, err := t.Load()
	if err != nil {
		return false, err
	}
	return record.InvocationCount < MonthlyFreeLimit, nil
}

// RecordUsage registers one invocation of toolID against the current period.
// It is a no-op for premium callers. The period is re-evaluated inside the
// mutation so a call that straddles a month rollover counts against the new
// period, not the stale one.
func (t *Tracker) RecordUsage(toolID string) error {
	if t.premium() {
		return nil
	}

	record, err := t.Load()
	if err != nil {
		return err
	}

	record.InvocationCount++
	if !slices.Contains(record.DistinctToolsUsed, toolID) {
		record.DistinctToolsUsed = append(record.DistinctToolsUsed, toolID)
	}
	record.LastUsedAt = t.now().UTC()

	return t.storage.Save(record)
}

// RemainingUses returns how many free invocations are left this period,
// never negative, or Unlimited for premium callers.
func (t *Tracker) RemainingUses() (int, error) {
	if t.premium() {
		return Unlimited, nil
	}

	record, err := t.Load()
	if err != nil {
		return 0, err
	}

	remaining := MonthlyFreeLimit - record.InvocationCount
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

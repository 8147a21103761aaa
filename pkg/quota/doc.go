// Package quota tracks free tool usage per device over calendar-month periods.
//
// A Tracker owns a single persisted UsageRecord and enforces the monthly free
// limit for callers without premium access. The record lives in durable
// client-local storage behind the Storage interface; crossing a month boundary
// resets the counter, with no carryover of unused quota.
//
// The tracker runs single-threaded on the client, so correctness relies on
// ordering rather than locking: every mutation re-evaluates the current
// period before writing, never after.
package quota

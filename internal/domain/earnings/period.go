package earnings

import "time"

// PeriodDays is the fixed pay-period length.
const PeriodDays = 14

// Period is a 14-day pay window anchored at a local-midnight start date.
// Membership is evaluated in wall-clock local time; no timezone conversion
// happens anywhere in the computation.
type Period struct {
	start time.Time
}

func NewPeriod(start time.Time) Period {
	return Period{start: DayStart(start)}
}

// DayStart truncates to local midnight in t's location.
func DayStart(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func (p Period) Start() time.Time {
	return p.start
}

// End is the last instant of the window: start + 13 days, 23:59:59.999.
func (p Period) End() time.Time {
	last := p.start.AddDate(0, 0, PeriodDays-1)
	year, month, day := last.Date()
	return time.Date(year, month, day, 23, 59, 59, 999_000_000, last.Location())
}

// Contains is inclusive on both boundaries.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.start) && !t.After(p.End())
}

// Advance returns the next window. Calling it twice advances twice; the
// payout ledger guards the advance with the expected start date.
func (p Period) Advance() Period {
	return Period{start: p.start.AddDate(0, 0, PeriodDays)}
}

// ResetPeriod re-anchors at today's local midnight.
func ResetPeriod(now time.Time) Period {
	return NewPeriod(now)
}

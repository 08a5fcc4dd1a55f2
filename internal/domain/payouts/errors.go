package payouts

import "errors"

var (
	ErrNotFound = errors.New("payout receipt not found")

	// ErrPeriodMismatch means the caller's expected period start is neither
	// the current anchor nor one it has already advanced past.
	ErrPeriodMismatch = errors.New("pay period start does not match the current anchor")
)

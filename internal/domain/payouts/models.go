package payouts

import "time"

// Receipt is one append-only "this person was paid" entry. Receipts are
// never mutated; duplicates for the same person and period are legitimate
// audit-trail entries.
type Receipt struct {
	ID          string    `json:"id"`
	PersonEmail string    `json:"personEmail"`
	PersonName  string    `json:"personName"`
	Amount      float64   `json:"amount"`
	PeriodStart time.Time `json:"periodStart"`
	LoggedAt    time.Time `json:"loggedAt"`
}

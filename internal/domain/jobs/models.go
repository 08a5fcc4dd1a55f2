package jobs

import "time"

// Assignment links a sale to up to two workers. When is the free-text time
// the crew typed ("Tue 9-12", "3:45pm-6"); DurationHours, when present,
// overrides parsing it.
type Assignment struct {
	ID            string     `json:"id"`
	SaleID        string     `json:"saleId"`
	WorkerEmail   string     `json:"workerEmail"`
	Worker2Email  string     `json:"worker2Email"`
	When          string     `json:"when"`
	Status        string     `json:"status"`
	DurationHours *float64   `json:"durationHours,omitempty"`
	Done          bool       `json:"done"`
	IsPast        bool       `json:"isPast"`
	Price         string     `json:"price,omitempty"`
	DoneAt        *time.Time `json:"doneAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Stamp is the timestamp used for pay-period attribution, in preference
// order: doneAt, createdAt.
func (a Assignment) Stamp() *time.Time {
	if a.DoneAt != nil {
		return a.DoneAt
	}
	if !a.CreatedAt.IsZero() {
		t := a.CreatedAt
		return &t
	}
	return nil
}

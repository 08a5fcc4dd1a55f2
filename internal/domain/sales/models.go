package sales

import "time"

const (
	StatusUnassigned = "unassigned"
	StatusAssigned   = "assigned"
	StatusWorked     = "worked"
)

// Sale is a record a seller enters at the door. Price is kept exactly as
// typed; money math parses it leniently and treats garbage as absent.
type Sale struct {
	ID           string     `json:"id"`
	SellerEmail  string     `json:"sellerEmail"`
	CustomerName string     `json:"customerName"`
	Address      string     `json:"address"`
	Price        string     `json:"price"`
	Notes        string     `json:"notes"`
	Status       string     `json:"status"`
	SoldAt       *time.Time `json:"soldAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Stamp is the timestamp used for pay-period attribution: createdAt is
// authoritative, soldAt is the fallback for imported rows.
func (s Sale) Stamp() *time.Time {
	if !s.CreatedAt.IsZero() {
		t := s.CreatedAt
		return &t
	}
	return s.SoldAt
}

package earnings

// Share kinds for the current-period customer breakdown.
const (
	ShareWorker = "worker"
	ShareSeller = "seller"
)

type CustomerShare struct {
	CustomerName string  `json:"customerName"`
	SalePrice    float64 `json:"salePrice"`
	ShareAmount  float64 `json:"shareAmount"`
	Kind         string  `json:"kind"`
}

// Summary is one person's derived earnings row. It is computed, never
// stored.
type Summary struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`

	HoursAllTime       float64 `json:"hoursAllTime"`
	HoursCurrentPeriod float64 `json:"hoursCurrentPeriod"`

	JobCountAllTime       int `json:"jobCountAllTime"`
	JobCountCurrentPeriod int `json:"jobCountCurrentPeriod"`

	SaleCountAllTime       int `json:"saleCountAllTime"`
	SaleCountCurrentPeriod int `json:"saleCountCurrentPeriod"`

	WorkerEarningsAllTime       float64 `json:"workerEarningsAllTime"`
	WorkerEarningsCurrentPeriod float64 `json:"workerEarningsCurrentPeriod"`

	SellerEarningsAllTime       float64 `json:"sellerEarningsAllTime"`
	SellerEarningsCurrentPeriod float64 `json:"sellerEarningsCurrentPeriod"`

	TotalEarningsAllTime       float64 `json:"totalEarningsAllTime"`
	TotalEarningsCurrentPeriod float64 `json:"totalEarningsCurrentPeriod"`

	Customers []CustomerShare `json:"customersCurrentPeriod"`
}

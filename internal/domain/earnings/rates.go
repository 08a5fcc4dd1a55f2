package earnings

import "github.com/shopspring/decimal"

// Revenue split per sale: seller 30%, each worker 20%, admin 10%,
// expenses 20%. The parts always sum to 100% of the price; views that show
// a single "admin + expenses" remainder use RemainderRate (30%).
var (
	SellerRate   = decimal.NewFromInt(30).Div(decimal.NewFromInt(100))
	WorkerRate   = decimal.NewFromInt(20).Div(decimal.NewFromInt(100))
	AdminRate    = decimal.NewFromInt(10).Div(decimal.NewFromInt(100))
	ExpensesRate = decimal.NewFromInt(20).Div(decimal.NewFromInt(100))
)

func RemainderRate() decimal.Decimal {
	return AdminRate.Add(ExpensesRate)
}

// Split is the full four-way (plus expenses) division of one sale price.
type Split struct {
	Price    decimal.Decimal
	Seller   decimal.Decimal
	Worker1  decimal.Decimal
	Worker2  decimal.Decimal
	Admin    decimal.Decimal
	Expenses decimal.Decimal
}

func SplitSale(price decimal.Decimal) Split {
	return Split{
		Price:    price,
		Seller:   price.Mul(SellerRate),
		Worker1:  price.Mul(WorkerRate),
		Worker2:  price.Mul(WorkerRate),
		Admin:    price.Mul(AdminRate),
		Expenses: price.Mul(ExpensesRate),
	}
}

func (s Split) Total() decimal.Decimal {
	return s.Seller.Add(s.Worker1).Add(s.Worker2).Add(s.Admin).Add(s.Expenses)
}

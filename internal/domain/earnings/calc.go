package earnings

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"crewpay/internal/domain/jobs"
	"crewpay/internal/domain/roster"
	"crewpay/internal/domain/sales"
)

// Compute turns the raw records into per-person earnings rows for all time
// and for the current pay period. It is a pure function: malformed input
// (missing sale, garbage price, unparseable time) degrades to a
// zero-contribution, never an error. Workers earn 20% of the sale price per
// completed job slot; sellers earn 30% of every sale they originated,
// worked or not. A hybrid accrues both independently.
func Compute(people []roster.Person, allSales []sales.Sale, assignments []jobs.Assignment, period Period) []Summary {
	calc := newCalc(people)

	// Every roster member gets a row, active or not; the exports list the
	// whole crew.
	for _, p := range people {
		if p.Email != "" {
			calc.row(p.Email)
		}
	}

	saleByID := make(map[string]sales.Sale, len(allSales))
	for _, s := range allSales {
		saleByID[s.ID] = s
	}

	// Pass 1: worker credit from completed assignments.
	for _, a := range assignments {
		if !a.Completed() {
			continue
		}
		sale, haveSale := saleByID[a.SaleID]
		price, hasPrice := assignmentPrice(sale, haveSale, a)
		hours := assignmentHours(a)
		inPeriod := stampIn(period, a.Stamp())

		customer := a.SaleID
		if haveSale && sale.CustomerName != "" {
			customer = sale.CustomerName
		}

		for _, email := range workerSlots(a) {
			row := calc.row(email)
			row.jobsAll++
			row.hoursAll += hours
			if hasPrice {
				row.workerAll = row.workerAll.Add(price.Mul(WorkerRate))
			}
			if !inPeriod {
				continue
			}
			row.jobsPP++
			row.hoursPP += hours
			if hasPrice {
				share := price.Mul(WorkerRate)
				row.workerPP = row.workerPP.Add(share)
				row.customers = append(row.customers, CustomerShare{
					CustomerName: customer,
					SalePrice:    price.InexactFloat64(),
					ShareAmount:  share.InexactFloat64(),
					Kind:         ShareWorker,
				})
			}
		}
	}

	// Pass 2: seller credit from every sale, assigned or not.
	for _, s := range allSales {
		if s.SellerEmail == "" {
			continue
		}
		row := calc.row(s.SellerEmail)
		row.salesAll++

		price, hasPrice := ParsePrice(s.Price)
		if hasPrice {
			row.sellerAll = row.sellerAll.Add(price.Mul(SellerRate))
		}

		if !stampIn(period, s.Stamp()) {
			continue
		}
		row.salesPP++
		if hasPrice {
			share := price.Mul(SellerRate)
			row.sellerPP = row.sellerPP.Add(share)
			customer := s.CustomerName
			if customer == "" {
				customer = "(sold)"
			}
			row.customers = append(row.customers, CustomerShare{
				CustomerName: customer,
				SalePrice:    price.InexactFloat64(),
				ShareAmount:  share.InexactFloat64(),
				Kind:         ShareSeller,
			})
		}
	}

	return calc.summaries()
}

// ParsePrice reads a price exactly as the seller typed it. Currency symbols
// and thousands separators are tolerated; anything else non-numeric means
// "no price" and contributes zero.
func ParsePrice(raw string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil || price.IsZero() {
		return decimal.Zero, false
	}
	return price, true
}

func assignmentPrice(sale sales.Sale, haveSale bool, a jobs.Assignment) (decimal.Decimal, bool) {
	if haveSale {
		if price, ok := ParsePrice(sale.Price); ok {
			return price, true
		}
	}
	return ParsePrice(a.Price)
}

// assignmentHours prefers an explicit duration over parsing the free text.
func assignmentHours(a jobs.Assignment) float64 {
	if a.DurationHours != nil {
		return *a.DurationHours
	}
	return ParseDurationHours(a.When)
}

func workerSlots(a jobs.Assignment) []string {
	slots := make([]string, 0, 2)
	if a.WorkerEmail != "" {
		slots = append(slots, a.WorkerEmail)
	}
	if a.Worker2Email != "" {
		slots = append(slots, a.Worker2Email)
	}
	return slots
}

func stampIn(period Period, stamp *time.Time) bool {
	return stamp != nil && period.Contains(*stamp)
}

type personAccum struct {
	email string
	name  string
	role  string

	hoursAll, hoursPP float64
	jobsAll, jobsPP   int
	salesAll, salesPP int

	workerAll, workerPP decimal.Decimal
	sellerAll, sellerPP decimal.Decimal

	customers []CustomerShare
}

type calcState struct {
	rows   map[string]*personAccum
	order  []string
	people map[string]roster.Person
}

func newCalc(people []roster.Person) *calcState {
	byEmail := make(map[string]roster.Person, len(people))
	for _, p := range people {
		byEmail[p.Email] = p
	}
	return &calcState{rows: map[string]*personAccum{}, people: byEmail}
}

// row returns the accumulator for an email, creating one on first sight.
// Emails missing from the roster still get a row, displayed by raw email.
func (c *calcState) row(email string) *personAccum {
	if existing, ok := c.rows[email]; ok {
		return existing
	}
	accum := &personAccum{
		email:     email,
		name:      email,
		role:      "-",
		workerAll: decimal.Zero, workerPP: decimal.Zero,
		sellerAll: decimal.Zero, sellerPP: decimal.Zero,
	}
	if p, ok := c.people[email]; ok {
		if p.Name != "" {
			accum.name = p.Name
		}
		if p.Role != "" {
			accum.role = p.Role
		}
	}
	c.rows[email] = accum
	c.order = append(c.order, email)
	return accum
}

func (c *calcState) summaries() []Summary {
	out := make([]Summary, 0, len(c.order))
	for _, email := range c.order {
		r := c.rows[email]
		totalAll := r.workerAll.Add(r.sellerAll)
		totalPP := r.workerPP.Add(r.sellerPP)
		out = append(out, Summary{
			Email:                       r.email,
			Name:                        r.name,
			Role:                        r.role,
			HoursAllTime:                r.hoursAll,
			HoursCurrentPeriod:          r.hoursPP,
			JobCountAllTime:             r.jobsAll,
			JobCountCurrentPeriod:       r.jobsPP,
			SaleCountAllTime:            r.salesAll,
			SaleCountCurrentPeriod:      r.salesPP,
			WorkerEarningsAllTime:       r.workerAll.InexactFloat64(),
			WorkerEarningsCurrentPeriod: r.workerPP.InexactFloat64(),
			SellerEarningsAllTime:       r.sellerAll.InexactFloat64(),
			SellerEarningsCurrentPeriod: r.sellerPP.InexactFloat64(),
			TotalEarningsAllTime:        totalAll.InexactFloat64(),
			TotalEarningsCurrentPeriod:  totalPP.InexactFloat64(),
			Customers:                   r.customers,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalEarningsCurrentPeriod != out[j].TotalEarningsCurrentPeriod {
			return out[i].TotalEarningsCurrentPeriod > out[j].TotalEarningsCurrentPeriod
		}
		return out[i].Email < out[j].Email
	})
	return out
}

package earnings

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"crewpay/internal/domain/jobs"
	"crewpay/internal/domain/roster"
	"crewpay/internal/domain/sales"
)

func testPeriod() Period {
	return NewPeriod(time.Date(2025, 11, 1, 0, 0, 0, 0, time.Local))
}

func inWindow() time.Time {
	return time.Date(2025, 11, 5, 10, 0, 0, 0, time.Local)
}

func findRow(t *testing.T, rows []Summary, email string) Summary {
	t.Helper()
	for _, r := range rows {
		if r.Email == email {
			return r
		}
	}
	t.Fatalf("no summary row for %s", email)
	return Summary{}
}

func TestSplitSaleSumsToFullPrice(t *testing.T) {
	for _, raw := range []string{"100", "199.99", "0.01", "333.33"} {
		price, ok := ParsePrice(raw)
		if !ok {
			t.Fatalf("expected %q to parse", raw)
		}
		split := SplitSale(price)
		if !split.Total().Equal(price) {
			t.Fatalf("split of %s sums to %s, want %s", raw, split.Total(), price)
		}
	}
	if !SellerRate.Add(WorkerRate).Add(WorkerRate).Add(RemainderRate()).Equal(decimal.NewFromInt(1)) {
		t.Fatal("expected 0.30 + 0.20 + 0.20 + 0.30 == 1.00")
	}
}

func TestComputeEndToEnd(t *testing.T) {
	people := []roster.Person{
		{Email: "s@x.com", Name: "Sam", Role: roster.RoleSeller},
		{Email: "w@x.com", Name: "Wes", Role: roster.RoleWorker},
	}
	sold := inWindow()
	saleRows := []sales.Sale{
		{ID: "1", SellerEmail: "s@x.com", CustomerName: "Smith", Price: "200", CreatedAt: sold},
	}
	assignments := []jobs.Assignment{
		{ID: "1", SaleID: "1", WorkerEmail: "w@x.com", Status: "worked", When: "10-2", CreatedAt: sold},
	}

	rows := Compute(people, saleRows, assignments, testPeriod())

	seller := findRow(t, rows, "s@x.com")
	if seller.SellerEarningsCurrentPeriod != 60 {
		t.Fatalf("expected seller share 60, got %v", seller.SellerEarningsCurrentPeriod)
	}
	if seller.SaleCountCurrentPeriod != 1 || seller.SaleCountAllTime != 1 {
		t.Fatalf("expected one sale counted, got %+v", seller)
	}

	worker := findRow(t, rows, "w@x.com")
	if worker.WorkerEarningsCurrentPeriod != 40 {
		t.Fatalf("expected worker share 40, got %v", worker.WorkerEarningsCurrentPeriod)
	}
	if worker.HoursCurrentPeriod != 4 {
		t.Fatalf("expected 4 hours from \"10-2\", got %v", worker.HoursCurrentPeriod)
	}
	if worker.JobCountCurrentPeriod != 1 {
		t.Fatalf("expected one job counted, got %d", worker.JobCountCurrentPeriod)
	}
}

func TestComputeMalformedPriceNeverThrows(t *testing.T) {
	people := []roster.Person{{Email: "s@x.com", Name: "Sam", Role: roster.RoleSeller}}
	for _, price := range []string{"", "abc", "$", "n/a"} {
		rows := Compute(people, []sales.Sale{
			{ID: "1", SellerEmail: "s@x.com", Price: price, CreatedAt: inWindow()},
		}, nil, testPeriod())

		seller := findRow(t, rows, "s@x.com")
		if seller.SellerEarningsAllTime != 0 || seller.SellerEarningsCurrentPeriod != 0 {
			t.Fatalf("price %q: expected zero earnings, got %+v", price, seller)
		}
		// The sale still counts even without a usable price.
		if seller.SaleCountAllTime != 1 {
			t.Fatalf("price %q: expected sale still counted", price)
		}
	}
}

func TestComputeMissingSaleStillCreditsHours(t *testing.T) {
	assignments := []jobs.Assignment{
		{ID: "1", SaleID: "404", WorkerEmail: "w@x.com", Status: "done", When: "9-1", CreatedAt: inWindow()},
	}
	rows := Compute(nil, nil, assignments, testPeriod())

	worker := findRow(t, rows, "w@x.com")
	if worker.HoursCurrentPeriod != 4 || worker.JobCountCurrentPeriod != 1 {
		t.Fatalf("expected hour/job credit without a sale, got %+v", worker)
	}
	if worker.WorkerEarningsCurrentPeriod != 0 {
		t.Fatalf("expected zero earnings without a price, got %v", worker.WorkerEarningsCurrentPeriod)
	}
}

func TestComputeHybridDoubleCredit(t *testing.T) {
	people := []roster.Person{{Email: "h@x.com", Name: "Harper", Role: roster.RoleHybrid}}
	saleRows := []sales.Sale{
		{ID: "1", SellerEmail: "h@x.com", CustomerName: "Jones", Price: "100", CreatedAt: inWindow()},
	}
	assignments := []jobs.Assignment{
		{ID: "1", SaleID: "1", WorkerEmail: "h@x.com", Status: "completed", CreatedAt: inWindow()},
	}

	rows := Compute(people, saleRows, assignments, testPeriod())
	row := findRow(t, rows, "h@x.com")
	if row.SellerEarningsCurrentPeriod != 30 {
		t.Fatalf("expected seller share 30, got %v", row.SellerEarningsCurrentPeriod)
	}
	if row.WorkerEarningsCurrentPeriod != 20 {
		t.Fatalf("expected worker share 20, got %v", row.WorkerEarningsCurrentPeriod)
	}
	if row.TotalEarningsCurrentPeriod != 50 {
		t.Fatalf("expected combined total 50, got %v", row.TotalEarningsCurrentPeriod)
	}
}

func TestComputeUnknownPersonStillSummarized(t *testing.T) {
	saleRows := []sales.Sale{
		{ID: "1", SellerEmail: "s@x.com", Price: "100", CreatedAt: inWindow()},
	}
	assignments := []jobs.Assignment{
		{ID: "1", SaleID: "1", WorkerEmail: "ghost@x.com", Status: "finished", CreatedAt: inWindow()},
	}

	rows := Compute(nil, saleRows, assignments, testPeriod())
	ghost := findRow(t, rows, "ghost@x.com")
	if ghost.Name != "ghost@x.com" {
		t.Fatalf("expected raw email as display name, got %q", ghost.Name)
	}
	if ghost.Role != "-" {
		t.Fatalf("expected placeholder role, got %q", ghost.Role)
	}
	if ghost.WorkerEarningsCurrentPeriod != 20 {
		t.Fatalf("expected worker share 20, got %v", ghost.WorkerEarningsCurrentPeriod)
	}
}

func TestComputeBothWorkerSlotsCredited(t *testing.T) {
	saleRows := []sales.Sale{
		{ID: "1", SellerEmail: "s@x.com", Price: "100", CreatedAt: inWindow()},
	}
	assignments := []jobs.Assignment{
		{ID: "1", SaleID: "1", WorkerEmail: "a@x.com", Worker2Email: "b@x.com", Status: "completed", When: "9-12", CreatedAt: inWindow()},
	}

	rows := Compute(nil, saleRows, assignments, testPeriod())
	for _, email := range []string{"a@x.com", "b@x.com"} {
		row := findRow(t, rows, email)
		if row.WorkerEarningsCurrentPeriod != 20 {
			t.Fatalf("%s: expected 20, got %v", email, row.WorkerEarningsCurrentPeriod)
		}
		if row.HoursCurrentPeriod != 3 {
			t.Fatalf("%s: expected 3 hours, got %v", email, row.HoursCurrentPeriod)
		}
	}
}

func TestComputeSellerCreditedWithoutCompletedJob(t *testing.T) {
	// A sale counts for its seller even if nobody ever worked it.
	saleRows := []sales.Sale{
		{ID: "1", SellerEmail: "s@x.com", Price: "50", CreatedAt: inWindow()},
	}
	rows := Compute(nil, saleRows, nil, testPeriod())
	seller := findRow(t, rows, "s@x.com")
	if seller.SellerEarningsCurrentPeriod != 15 {
		t.Fatalf("expected 15, got %v", seller.SellerEarningsCurrentPeriod)
	}
}

func TestComputeIgnoresIncompleteAssignments(t *testing.T) {
	saleRows := []sales.Sale{
		{ID: "1", SellerEmail: "s@x.com", Price: "100", CreatedAt: inWindow()},
	}
	assignments := []jobs.Assignment{
		{ID: "1", SaleID: "1", WorkerEmail: "w@x.com", Status: "offered", CreatedAt: inWindow()},
		{ID: "2", SaleID: "1", WorkerEmail: "w@x.com", Status: "scheduled-for-review", CreatedAt: inWindow()},
	}

	rows := Compute(nil, saleRows, assignments, testPeriod())
	for _, r := range rows {
		if r.Email == "w@x.com" {
			t.Fatalf("expected no worker row for incomplete assignments, got %+v", r)
		}
	}
}

func TestComputeExplicitDurationWins(t *testing.T) {
	hours := 7.5
	assignments := []jobs.Assignment{
		{ID: "1", SaleID: "1", WorkerEmail: "w@x.com", Status: "done", When: "9-12", DurationHours: &hours, CreatedAt: inWindow()},
	}
	rows := Compute(nil, nil, assignments, testPeriod())
	worker := findRow(t, rows, "w@x.com")
	if worker.HoursCurrentPeriod != 7.5 {
		t.Fatalf("expected explicit 7.5 hours to win over \"9-12\", got %v", worker.HoursCurrentPeriod)
	}
}

func TestComputeOutsidePeriodCountsAllTimeOnly(t *testing.T) {
	old := time.Date(2025, 9, 1, 12, 0, 0, 0, time.Local)
	saleRows := []sales.Sale{
		{ID: "1", SellerEmail: "s@x.com", Price: "100", CreatedAt: old},
	}
	assignments := []jobs.Assignment{
		{ID: "1", SaleID: "1", WorkerEmail: "w@x.com", Status: "worked", When: "9-2", CreatedAt: old},
	}

	rows := Compute(nil, saleRows, assignments, testPeriod())

	worker := findRow(t, rows, "w@x.com")
	if worker.WorkerEarningsAllTime != 20 || worker.WorkerEarningsCurrentPeriod != 0 {
		t.Fatalf("expected all-time-only worker credit, got %+v", worker)
	}
	if worker.HoursAllTime != 5 || worker.HoursCurrentPeriod != 0 {
		t.Fatalf("expected all-time-only hours, got %+v", worker)
	}

	seller := findRow(t, rows, "s@x.com")
	if seller.SellerEarningsAllTime != 30 || seller.SellerEarningsCurrentPeriod != 0 {
		t.Fatalf("expected all-time-only seller credit, got %+v", seller)
	}
	if len(seller.Customers) != 0 {
		t.Fatalf("expected no current-period breakdown, got %+v", seller.Customers)
	}
}

func TestComputeSortsByCurrentPeriodTotalDescending(t *testing.T) {
	saleRows := []sales.Sale{
		{ID: "1", SellerEmail: "low@x.com", Price: "10", CreatedAt: inWindow()},
		{ID: "2", SellerEmail: "high@x.com", Price: "1000", CreatedAt: inWindow()},
	}
	rows := Compute(nil, saleRows, nil, testPeriod())
	if rows[0].Email != "high@x.com" {
		t.Fatalf("expected high earner first, got %s", rows[0].Email)
	}
}

func TestComputeCustomerBreakdown(t *testing.T) {
	saleRows := []sales.Sale{
		{ID: "1", SellerEmail: "h@x.com", CustomerName: "Smith", Price: "200", CreatedAt: inWindow()},
	}
	assignments := []jobs.Assignment{
		{ID: "1", SaleID: "1", WorkerEmail: "h@x.com", Status: "completed", CreatedAt: inWindow()},
	}

	rows := Compute(nil, saleRows, assignments, testPeriod())
	row := findRow(t, rows, "h@x.com")
	if len(row.Customers) != 2 {
		t.Fatalf("expected worker + seller breakdown entries, got %+v", row.Customers)
	}
	for _, c := range row.Customers {
		if c.CustomerName != "Smith" || c.SalePrice != 200 {
			t.Fatalf("unexpected breakdown entry %+v", c)
		}
		switch c.Kind {
		case ShareWorker:
			if c.ShareAmount != 40 {
				t.Fatalf("expected worker breakdown share 40, got %v", c.ShareAmount)
			}
		case ShareSeller:
			if c.ShareAmount != 60 {
				t.Fatalf("expected seller breakdown share 60, got %v", c.ShareAmount)
			}
		default:
			t.Fatalf("unexpected share kind %q", c.Kind)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(123.4); got != "$123.40" {
		t.Fatalf("expected $123.40, got %q", got)
	}
	if got := FormatMoney(0); got != "$0.00" {
		t.Fatalf("expected $0.00, got %q", got)
	}
}

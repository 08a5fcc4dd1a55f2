package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"crewpay/internal/domain/earnings"
)

func sampleRows() []earnings.Summary {
	return []earnings.Summary{
		{
			Email: "w@x.com", Name: "Wes", Role: "worker",
			HoursCurrentPeriod:          4,
			JobCountCurrentPeriod:       1,
			WorkerEarningsCurrentPeriod: 40,
			TotalEarningsCurrentPeriod:  40,
			Customers: []earnings.CustomerShare{
				{CustomerName: "Smith", SalePrice: 200, ShareAmount: 40, Kind: earnings.ShareWorker},
			},
		},
		{
			Email: "s@x.com", Name: "Sam", Role: "seller",
			SaleCountCurrentPeriod:      1,
			SellerEarningsCurrentPeriod: 60,
			TotalEarningsCurrentPeriod:  60,
			Customers: []earnings.CustomerShare{
				{CustomerName: "Smith", SalePrice: 200, ShareAmount: 60, Kind: earnings.ShareSeller},
			},
		},
	}
}

func TestRegisterCSV(t *testing.T) {
	period := earnings.NewPeriod(time.Date(2025, 11, 1, 0, 0, 0, 0, time.Local))
	out, err := New().RegisterCSV(sampleRows(), period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "NAME,ROLE,") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Smith / -") {
		t.Fatalf("expected worked customer on worker row, got %s", lines[1])
	}
	if !strings.Contains(lines[1], "$40.00") {
		t.Fatalf("expected formatted worker share, got %s", lines[1])
	}
	if !strings.Contains(lines[2], "- / Smith") {
		t.Fatalf("expected sold customer on seller row, got %s", lines[2])
	}
}

func TestSnapshotPDF(t *testing.T) {
	period := earnings.NewPeriod(time.Date(2025, 11, 1, 0, 0, 0, 0, time.Local))
	out, err := New().SnapshotPDF(sampleRows(), period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}
}

package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"crewpay/internal/domain/earnings"
)

// Service renders earnings rows into the two export formats the office
// actually hands out: a pay-period snapshot PDF and a payroll register CSV.
type Service struct{}

func New() *Service {
	return &Service{}
}

func (s *Service) SnapshotPDF(rows []earnings.Summary, period earnings.Period) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Crew Pay Period Snapshot")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Pay Period: %s - %s",
		period.Start().Format("Jan 2, 2006"), period.End().Format("Jan 2, 2006")))
	pdf.Ln(11)

	headers := []string{"Name", "Role", "Jobs/Sales", "Hours", "Worker Earned", "Seller Earned", "Total"}
	widths := []float64{55, 25, 28, 22, 38, 38, 38}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(229, 231, 235)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 9, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 8, r.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, r.Role, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 8, fmt.Sprintf("%d/%d", r.JobCountCurrentPeriod, r.SaleCountCurrentPeriod), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 8, fmt.Sprintf("%.1f", r.HoursCurrentPeriod), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 8, earnings.FormatMoney(r.WorkerEarningsCurrentPeriod), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 8, earnings.FormatMoney(r.SellerEarningsCurrentPeriod), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 8, earnings.FormatMoney(r.TotalEarningsCurrentPeriod), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) RegisterCSV(rows []earnings.Summary, period earnings.Period) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{
		"NAME", "ROLE", "CUSTOMERS WORKED (W/S)", "NAMES WORKED (W/S)",
		"TOTAL HOURS", "EARNINGS", "WORKER EARNED", "SELLER EARNED",
	}); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.Name,
			r.Role,
			fmt.Sprintf("%d/%d", r.JobCountCurrentPeriod, r.SaleCountCurrentPeriod),
			customerNames(r),
			fmt.Sprintf("%.1f", r.HoursCurrentPeriod),
			earnings.FormatMoney(r.TotalEarningsCurrentPeriod),
			earnings.FormatMoney(r.WorkerEarningsCurrentPeriod),
			earnings.FormatMoney(r.SellerEarningsCurrentPeriod),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// customerNames joins worked and sold customer names as "worked / sold".
func customerNames(r earnings.Summary) string {
	var worked, sold []string
	for _, c := range r.Customers {
		switch c.Kind {
		case earnings.ShareWorker:
			worked = append(worked, c.CustomerName)
		case earnings.ShareSeller:
			sold = append(sold, c.CustomerName)
		}
	}
	left, right := "-", "-"
	if len(worked) > 0 {
		left = strings.Join(worked, "; ")
	}
	if len(sold) > 0 {
		right = strings.Join(sold, "; ")
	}
	return left + " / " + right
}

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"crewpay/internal/app/server"
	"crewpay/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

type summaryRow struct {
	Email                       string  `json:"email"`
	HoursCurrentPeriod          float64 `json:"hoursCurrentPeriod"`
	WorkerEarningsCurrentPeriod float64 `json:"workerEarningsCurrentPeriod"`
	SellerEarningsCurrentPeriod float64 `json:"sellerEarningsCurrentPeriod"`
	TotalEarningsCurrentPeriod  float64 `json:"totalEarningsCurrentPeriod"`
}

func TestCrewSaleToPayrollJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	chdirRepoRoot(t)

	cfg := config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		FrontendDir:        "frontend/dist",
		Environment:        "test",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		SeedAdminName:      "Test Admin",
		RunMigrations:      true,
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	suffix := time.Now().UnixNano()
	sellerEmail := fmt.Sprintf("seller-%d@example.com", suffix)
	workerEmail := fmt.Sprintf("worker-%d@example.com", suffix)

	postJSON(t, client, ts.URL+"/api/v1/people", token, map[string]any{
		"email": sellerEmail, "name": "Journey Seller", "role": "seller",
	})
	postJSON(t, client, ts.URL+"/api/v1/people", token, map[string]any{
		"email": workerEmail, "name": "Journey Worker", "role": "worker",
	})

	saleResp := postJSON(t, client, ts.URL+"/api/v1/sales", token, map[string]any{
		"sellerEmail":  sellerEmail,
		"customerName": "Journey Smith",
		"price":        "200",
	})
	var sale struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(saleResp.Data, &sale); err != nil || sale.ID == "" {
		t.Fatalf("expected created sale id: %v", err)
	}

	assignResp := postJSON(t, client, ts.URL+"/api/v1/assignments", token, map[string]any{
		"saleId":      sale.ID,
		"workerEmail": workerEmail,
		"when":        "10-2",
	})
	var assignment struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(assignResp.Data, &assignment); err != nil || assignment.ID == "" {
		t.Fatalf("expected created assignment id: %v", err)
	}

	postJSON(t, client, ts.URL+"/api/v1/assignments/"+assignment.ID+"/complete", token, nil)

	summaryResp := getJSON(t, client, ts.URL+"/api/v1/money/summary", token)
	var summary struct {
		Period struct {
			Start string `json:"start"`
		} `json:"period"`
		Rows []summaryRow `json:"rows"`
	}
	if err := json.Unmarshal(summaryResp.Data, &summary); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}

	workerRow := findRow(t, summary.Rows, workerEmail)
	if workerRow.WorkerEarningsCurrentPeriod != 40 {
		t.Fatalf("expected worker share 40, got %v", workerRow.WorkerEarningsCurrentPeriod)
	}
	if workerRow.HoursCurrentPeriod != 4 {
		t.Fatalf("expected 4 hours from '10-2', got %v", workerRow.HoursCurrentPeriod)
	}
	sellerRow := findRow(t, summary.Rows, sellerEmail)
	if sellerRow.SellerEarningsCurrentPeriod != 60 {
		t.Fatalf("expected seller share 60, got %v", sellerRow.SellerEarningsCurrentPeriod)
	}

	// log a payout receipt for the worker
	receiptResp := postJSON(t, client, ts.URL+"/api/v1/money/mark-paid", token, map[string]any{
		"email":  workerEmail,
		"amount": 40,
	})
	var receipt struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(receiptResp.Data, &receipt); err != nil || receipt.ID == "" {
		t.Fatalf("expected payout receipt id: %v", err)
	}

	listResp := getJSON(t, client, ts.URL+"/api/v1/payouts", token)
	var receipts []map[string]any
	if err := json.Unmarshal(listResp.Data, &receipts); err != nil || len(receipts) == 0 {
		t.Fatalf("expected at least one payout receipt: %v", err)
	}

	// close out the period
	closeResp := postJSON(t, client, ts.URL+"/api/v1/money/payroll/mark-paid", token, map[string]any{
		"expectedStart": summary.Period.Start,
	})
	var closed struct {
		Advanced bool `json:"advanced"`
		Period   struct {
			Start string `json:"start"`
		} `json:"period"`
	}
	if err := json.Unmarshal(closeResp.Data, &closed); err != nil {
		t.Fatalf("failed to decode close response: %v", err)
	}
	if !closed.Advanced {
		t.Fatal("expected first close to advance the period")
	}
	if closed.Period.Start == summary.Period.Start {
		t.Fatal("expected the period start to move")
	}

	// a repeat with the old start is a stale no-op, not a double advance
	repeatResp := postJSON(t, client, ts.URL+"/api/v1/money/payroll/mark-paid", token, map[string]any{
		"expectedStart": summary.Period.Start,
	})
	var repeated struct {
		Advanced bool `json:"advanced"`
		Period   struct {
			Start string `json:"start"`
		} `json:"period"`
	}
	if err := json.Unmarshal(repeatResp.Data, &repeated); err != nil {
		t.Fatalf("failed to decode repeat response: %v", err)
	}
	if repeated.Advanced {
		t.Fatal("expected repeated close to be a no-op")
	}
	if repeated.Period.Start != closed.Period.Start {
		t.Fatal("expected repeated close to leave the period alone")
	}

	// claiming a period that has not started yet is rejected
	future, err := time.Parse("2006-01-02", closed.Period.Start)
	if err != nil {
		t.Fatalf("bad period start %q: %v", closed.Period.Start, err)
	}
	postJSONStatus(t, client, ts.URL+"/api/v1/money/payroll/mark-paid", token, map[string]any{
		"expectedStart": future.AddDate(0, 0, 14).Format("2006-01-02"),
	}, http.StatusConflict)

	// exports still render after the close
	rawGet(t, client, ts.URL+"/api/v1/reports/register.csv", token, "text/csv")
	rawGet(t, client, ts.URL+"/api/v1/reports/snapshot.pdf", token, "application/pdf")
}

// chdirRepoRoot moves to the module root so the migrations directory
// resolves the same way it does for the server binary.
func chdirRepoRoot(t *testing.T) {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			if err := os.Chdir(dir); err != nil {
				t.Fatalf("chdir failed: %v", err)
			}
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("go.mod not found above working directory")
		}
		dir = parent
	}
}

func findRow(t *testing.T, rows []summaryRow, email string) summaryRow {
	t.Helper()
	for _, row := range rows {
		if row.Email == email {
			return row
		}
	}
	t.Fatalf("no summary row for %s", email)
	return summaryRow{}
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(http.MethodPost, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return env
}

func postJSONStatus(t *testing.T, client *http.Client, url, token string, body any, want int) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(raw))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, string(payload))
	}
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return env
}

func rawGet(t *testing.T, client *http.Client, url, token, wantContentType string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from %s, got %d", url, resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != wantContentType {
		t.Fatalf("expected content type %q, got %q", wantContentType, got)
	}
}

package moneyhandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"crewpay/internal/domain/audit"
	"crewpay/internal/domain/earnings"
	"crewpay/internal/domain/jobs"
	"crewpay/internal/domain/payouts"
	"crewpay/internal/domain/roster"
	"crewpay/internal/domain/sales"
	"crewpay/internal/transport/http/api"
	"crewpay/internal/transport/http/middleware"
	"crewpay/internal/transport/http/shared"
)

type Handler struct {
	Roster  *roster.Store
	Sales   *sales.Store
	Jobs    *jobs.Store
	Payouts *payouts.Service
	Audit   *audit.Service
}

func NewHandler(rosterStore *roster.Store, salesStore *sales.Store, jobsStore *jobs.Store, payoutsService *payouts.Service, auditor *audit.Service) *Handler {
	return &Handler{
		Roster:  rosterStore,
		Sales:   salesStore,
		Jobs:    jobsStore,
		Payouts: payoutsService,
		Audit:   auditor,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/money", func(r chi.Router) {
		r.Get("/summary", h.handleSummary)
		r.Get("/tracker", h.handleTracker)
		r.Get("/period", h.handleGetPeriod)
		r.With(middleware.RequireRole(roster.RoleAdmin)).Put("/period", h.handleSetPeriod)
		r.With(middleware.RequireRole(roster.RoleAdmin)).Post("/period/reset", h.handleResetPeriod)
		r.With(middleware.RequireRole(roster.RoleAdmin)).Post("/mark-paid", h.handleMarkPaid)
		r.With(middleware.RequireRole(roster.RoleAdmin)).Post("/payroll/mark-paid", h.handleMarkPayrollPaid)
	})
}

type periodView struct {
	Start     string     `json:"start"`
	End       string     `json:"end"`
	ClearedAt *time.Time `json:"clearedAt,omitempty"`
}

func (h *Handler) periodView(r *http.Request, period earnings.Period) periodView {
	view := periodView{
		Start: period.Start().Format("2006-01-02"),
		End:   period.End().Format("2006-01-02"),
	}
	if cleared, err := h.Payouts.ClearedAt(r.Context()); err == nil {
		view.ClearedAt = cleared
	}
	return view
}

func (h *Handler) compute(r *http.Request) ([]earnings.Summary, earnings.Period, error) {
	period, err := h.Payouts.CurrentPeriod(r.Context())
	if err != nil {
		return nil, earnings.Period{}, err
	}
	people, err := h.Roster.List(r.Context())
	if err != nil {
		return nil, earnings.Period{}, err
	}
	allSales, err := h.Sales.List(r.Context())
	if err != nil {
		return nil, earnings.Period{}, err
	}
	assignments, err := h.Jobs.List(r.Context())
	if err != nil {
		return nil, earnings.Period{}, err
	}
	return earnings.Compute(people, allSales, assignments, period), period, nil
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	rows, period, err := h.compute(r)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "summary_failed", "failed to compute earnings", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"period": h.periodView(r, period),
		"rows":   rows,
	}, middleware.GetRequestID(r.Context()))
}

type trackerRow struct {
	SaleID       string  `json:"saleId"`
	CustomerName string  `json:"customerName"`
	SellerEmail  string  `json:"sellerEmail"`
	Price        float64 `json:"price"`
	Seller       float64 `json:"seller"`
	Worker1      float64 `json:"worker1"`
	Worker2      float64 `json:"worker2"`
	Admin        float64 `json:"admin"`
	Expenses     float64 `json:"expenses"`
}

// handleTracker lists every priced sale with its four-way split, the view
// the office uses to sanity-check where each dollar of a sale goes.
func (h *Handler) handleTracker(w http.ResponseWriter, r *http.Request) {
	allSales, err := h.Sales.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "tracker_failed", "failed to list sales", middleware.GetRequestID(r.Context()))
		return
	}

	rows := make([]trackerRow, 0, len(allSales))
	for _, sale := range allSales {
		price, ok := earnings.ParsePrice(sale.Price)
		if !ok {
			continue
		}
		split := earnings.SplitSale(price)
		name := sale.CustomerName
		if name == "" {
			name = sale.ID
		}
		rows = append(rows, trackerRow{
			SaleID:       sale.ID,
			CustomerName: name,
			SellerEmail:  sale.SellerEmail,
			Price:        split.Price.InexactFloat64(),
			Seller:       split.Seller.InexactFloat64(),
			Worker1:      split.Worker1.InexactFloat64(),
			Worker2:      split.Worker2.InexactFloat64(),
			Admin:        split.Admin.InexactFloat64(),
			Expenses:     split.Expenses.InexactFloat64(),
		})
	}

	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.Payouts.CurrentPeriod(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "period_failed", "failed to load pay period", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, h.periodView(r, period), middleware.GetRequestID(r.Context()))
}

type setPeriodRequest struct {
	Start string `json:"start"`
}

func (h *Handler) handleSetPeriod(w http.ResponseWriter, r *http.Request) {
	var payload setPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	start, ok := v.Date("start", payload.Start)
	if v.Reject(w, middleware.GetRequestID(r.Context())) || !ok {
		return
	}

	period, err := h.Payouts.SetPeriod(r.Context(), start)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "period_update_failed", "failed to update pay period", middleware.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, "money.period.set", "pay_period", nil, map[string]string{"start": period.Start().Format("2006-01-02")})
	api.Success(w, h.periodView(r, period), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleResetPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.Payouts.ResetPeriod(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "period_reset_failed", "failed to reset pay period", middleware.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, "money.period.reset", "pay_period", nil, map[string]string{"start": period.Start().Format("2006-01-02")})
	api.Success(w, h.periodView(r, period), middleware.GetRequestID(r.Context()))
}

type markPaidRequest struct {
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// handleMarkPaid logs a payout receipt for one person against the current
// period. It does not zero their computed earnings; the receipt is the
// record that money changed hands.
func (h *Handler) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	var payload markPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	if payload.Amount < 0 {
		v.Add("amount", "must not be negative")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		if person, err := h.Roster.Get(r.Context(), payload.Email); err == nil {
			name = person.Name
		} else {
			name = payload.Email
		}
	}

	period, err := h.Payouts.CurrentPeriod(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "period_failed", "failed to load pay period", middleware.GetRequestID(r.Context()))
		return
	}

	receipt, err := h.Payouts.Record(r.Context(), payload.Email, name, payload.Amount, period.Start())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payout_record_failed", "failed to log payout", middleware.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, "money.payout.record", receipt.ID, nil, receipt)
	api.Created(w, receipt, middleware.GetRequestID(r.Context()))
}

type markPayrollPaidRequest struct {
	ExpectedStart string `json:"expectedStart"`
}

// handleMarkPayrollPaid closes out the visible pay period: the anchor jumps
// fourteen days forward and the checkpoint is stamped. The caller names the
// period it believes is current; a repeat of an already-processed close is
// acknowledged without moving anything, and a claim about a period that has
// not started yet is rejected.
func (h *Handler) handleMarkPayrollPaid(w http.ResponseWriter, r *http.Request) {
	var payload markPayrollPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	expectedStart, ok := v.Date("expectedStart", payload.ExpectedStart)
	if v.Reject(w, middleware.GetRequestID(r.Context())) || !ok {
		return
	}

	period, advanced, err := h.Payouts.MarkPayrollPaid(r.Context(), expectedStart)
	if err != nil {
		if errors.Is(err, payouts.ErrPeriodMismatch) {
			api.Fail(w, http.StatusConflict, "period_mismatch", "expectedStart does not match the current pay period", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payroll_close_failed", "failed to close pay period", middleware.GetRequestID(r.Context()))
		return
	}

	if advanced {
		h.recordAudit(r, "money.payroll.mark_paid", "pay_period", map[string]string{"start": payload.ExpectedStart}, map[string]string{"start": period.Start().Format("2006-01-02")})
	}

	api.Success(w, map[string]any{
		"advanced": advanced,
		"period":   h.periodView(r, period),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, before, after any) {
	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.UserID
	}
	if err := h.Audit.Record(r.Context(), actor, action, "money", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		log.Printf("audit %s failed: %v", action, err)
	}
}

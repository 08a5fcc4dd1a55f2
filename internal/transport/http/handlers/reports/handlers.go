package reportshandler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crewpay/internal/domain/earnings"
	"crewpay/internal/domain/jobs"
	"crewpay/internal/domain/payouts"
	"crewpay/internal/domain/reports"
	"crewpay/internal/domain/roster"
	"crewpay/internal/domain/sales"
	"crewpay/internal/transport/http/api"
	"crewpay/internal/transport/http/middleware"
)

type Handler struct {
	Roster  *roster.Store
	Sales   *sales.Store
	Jobs    *jobs.Store
	Payouts *payouts.Service
	Reports *reports.Service
}

func NewHandler(rosterStore *roster.Store, salesStore *sales.Store, jobsStore *jobs.Store, payoutsService *payouts.Service) *Handler {
	return &Handler{
		Roster:  rosterStore,
		Sales:   salesStore,
		Jobs:    jobsStore,
		Payouts: payoutsService,
		Reports: reports.New(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/snapshot.pdf", h.handleSnapshotPDF)
		r.With(middleware.RequireAuth).Get("/register.csv", h.handleRegisterCSV)
	})
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

func (h *Handler) handleSnapshotPDF(w http.ResponseWriter, r *http.Request) {
	rows, period, err := h.compute(r)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to compute earnings", middleware.GetRequestID(r.Context()))
		return
	}

	pdf, err := h.Reports.SnapshotPDF(rows, period)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render pdf", middleware.GetRequestID(r.Context()))
		return
	}

	filename := fmt.Sprintf("pay-period-%s.pdf", period.Start().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) handleRegisterCSV(w http.ResponseWriter, r *http.Request) {
	rows, period, err := h.compute(r)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to compute earnings", middleware.GetRequestID(r.Context()))
		return
	}

	csvData, err := h.Reports.RegisterCSV(rows, period)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render csv", middleware.GetRequestID(r.Context()))
		return
	}

	filename := fmt.Sprintf("payroll-register-%s.csv", period.Start().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(csvData)
}

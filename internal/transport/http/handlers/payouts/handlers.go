package payoutshandler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crewpay/internal/domain/audit"
	"crewpay/internal/domain/payouts"
	"crewpay/internal/domain/roster"
	"crewpay/internal/transport/http/api"
	"crewpay/internal/transport/http/middleware"
	"crewpay/internal/transport/http/shared"
)

type Handler struct {
	Service *payouts.Service
	Audit   *audit.Service
}

func NewHandler(service *payouts.Service, auditor *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payouts", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(middleware.RequireRole(roster.RoleAdmin)).Delete("/{receiptID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payout_list_failed", "failed to list payouts", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, receipts, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "receiptID")

	if err := h.Service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, payouts.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "payout_not_found", "payout receipt not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payout_delete_failed", "failed to delete payout", middleware.GetRequestID(r.Context()))
		return
	}

	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.UserID
	}
	if err := h.Audit.Record(r.Context(), actor, "money.payout.delete", "payout", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		log.Printf("audit money.payout.delete failed: %v", err)
	}

	api.Success(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

package saleshandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"crewpay/internal/domain/audit"
	"crewpay/internal/domain/sales"
	"crewpay/internal/transport/http/api"
	"crewpay/internal/transport/http/middleware"
	"crewpay/internal/transport/http/shared"
)

type Handler struct {
	Store *sales.Store
	Audit *audit.Service
}

func NewHandler(store *sales.Store, auditor *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(middleware.RequireAuth).Post("/", h.handleCreate)
		r.Route("/{saleID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.With(middleware.RequireAuth).Put("/", h.handleUpdate)
			r.With(middleware.RequireAuth).Delete("/", h.handleDelete)
		})
	})
}

type salePayload struct {
	SellerEmail  string `json:"sellerEmail"`
	CustomerName string `json:"customerName"`
	Address      string `json:"address"`
	Price        string `json:"price"`
	Notes        string `json:"notes"`
	Status       string `json:"status"`
	SoldAt       string `json:"soldAt"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "sale_list_failed", "failed to list sales", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sale, err := h.Store.Get(r.Context(), chi.URLParam(r, "saleID"))
	if err != nil {
		if errors.Is(err, sales.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "sale_not_found", "sale not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "sale_get_failed", "failed to load sale", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, sale, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload salePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("customerName", payload.CustomerName, "customer name is required")
	v.Enum("status", payload.Status, []string{sales.StatusUnassigned, sales.StatusAssigned, sales.StatusWorked}, "must be one of unassigned, assigned, worked")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	sale := sales.Sale{
		SellerEmail:  strings.ToLower(strings.TrimSpace(payload.SellerEmail)),
		CustomerName: strings.TrimSpace(payload.CustomerName),
		Address:      strings.TrimSpace(payload.Address),
		Price:        strings.TrimSpace(payload.Price),
		Notes:        payload.Notes,
		Status:       strings.ToLower(strings.TrimSpace(payload.Status)),
		CreatedAt:    time.Now(),
	}
	if sale.Status == "" {
		sale.Status = sales.StatusUnassigned
	}
	if sale.SellerEmail == "" {
		if user, ok := middleware.GetUser(r.Context()); ok {
			sale.SellerEmail = strings.ToLower(user.Email)
		}
	}
	if payload.SoldAt != "" {
		soldAt, err := shared.ParseDate(payload.SoldAt)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "soldAt must be RFC3339 or YYYY-MM-DD", middleware.GetRequestID(r.Context()))
			return
		}
		sale.SoldAt = &soldAt
	}

	id, err := h.Store.Create(r.Context(), sale)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "sale_create_failed", "failed to create sale", middleware.GetRequestID(r.Context()))
		return
	}
	sale.ID = id

	h.recordAudit(r, "sales.sale.create", id, nil, sale)
	api.Created(w, sale, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "saleID")

	before, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sales.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "sale_not_found", "sale not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "sale_get_failed", "failed to load sale", middleware.GetRequestID(r.Context()))
		return
	}

	var payload salePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	updated := before
	if strings.TrimSpace(payload.SellerEmail) != "" {
		updated.SellerEmail = strings.ToLower(strings.TrimSpace(payload.SellerEmail))
	}
	if strings.TrimSpace(payload.CustomerName) != "" {
		updated.CustomerName = strings.TrimSpace(payload.CustomerName)
	}
	if strings.TrimSpace(payload.Address) != "" {
		updated.Address = strings.TrimSpace(payload.Address)
	}
	if payload.Price != "" {
		updated.Price = strings.TrimSpace(payload.Price)
	}
	if payload.Notes != "" {
		updated.Notes = payload.Notes
	}
	if payload.Status != "" {
		status := strings.ToLower(strings.TrimSpace(payload.Status))
		switch status {
		case sales.StatusUnassigned, sales.StatusAssigned, sales.StatusWorked:
			updated.Status = status
		default:
			api.Fail(w, http.StatusBadRequest, "invalid_status", "must be one of unassigned, assigned, worked", middleware.GetRequestID(r.Context()))
			return
		}
	}

	if err := h.Store.Update(r.Context(), updated); err != nil {
		api.Fail(w, http.StatusInternalServerError, "sale_update_failed", "failed to update sale", middleware.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, "sales.sale.update", id, before, updated)
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "saleID")

	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sales.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "sale_not_found", "sale not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "sale_delete_failed", "failed to delete sale", middleware.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, "sales.sale.delete", id, nil, nil)
	api.Success(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, before, after any) {
	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.UserID
	}
	if err := h.Audit.Record(r.Context(), actor, action, "sale", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		log.Printf("audit %s failed: %v", action, err)
	}
}

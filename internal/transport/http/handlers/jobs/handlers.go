package jobshandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"crewpay/internal/domain/audit"
	"crewpay/internal/domain/jobs"
	"crewpay/internal/domain/sales"
	"crewpay/internal/transport/http/api"
	"crewpay/internal/transport/http/middleware"
	"crewpay/internal/transport/http/shared"
)

type Handler struct {
	Store *jobs.Store
	Sales *sales.Store
	Audit *audit.Service
}

func NewHandler(store *jobs.Store, salesStore *sales.Store, auditor *audit.Service) *Handler {
	return &Handler{Store: store, Sales: salesStore, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assignments", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(middleware.RequireAuth).Post("/", h.handleCreate)
		r.Route("/{assignmentID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.With(middleware.RequireAuth).Put("/", h.handleUpdate)
			r.With(middleware.RequireAuth).Delete("/", h.handleDelete)
			r.With(middleware.RequireAuth).Post("/complete", h.handleComplete)
		})
	})
}

type assignmentPayload struct {
	SaleID        string   `json:"saleId"`
	WorkerEmail   string   `json:"workerEmail"`
	Worker2Email  string   `json:"worker2Email"`
	When          string   `json:"when"`
	Status        string   `json:"status"`
	DurationHours *float64 `json:"durationHours"`
	Price         string   `json:"price"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "assignment_list_failed", "failed to list assignments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.Store.Get(r.Context(), chi.URLParam(r, "assignmentID"))
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "assignment_not_found", "assignment not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "assignment_get_failed", "failed to load assignment", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload assignmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("saleId", payload.SaleID, "saleId is required")
	v.Required("workerEmail", payload.WorkerEmail, "workerEmail is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	a := jobs.Assignment{
		SaleID:        strings.TrimSpace(payload.SaleID),
		WorkerEmail:   strings.ToLower(strings.TrimSpace(payload.WorkerEmail)),
		Worker2Email:  strings.ToLower(strings.TrimSpace(payload.Worker2Email)),
		When:          strings.TrimSpace(payload.When),
		Status:        jobs.CanonicalStatus(payload.Status),
		DurationHours: payload.DurationHours,
		Price:         strings.TrimSpace(payload.Price),
		CreatedAt:     time.Now(),
	}
	if a.Status == "" {
		a.Status = jobs.StatusOffered
	}

	id, err := h.Store.Create(r.Context(), a)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "assignment_create_failed", "failed to create assignment", middleware.GetRequestID(r.Context()))
		return
	}
	a.ID = id

	h.markSale(r, a.SaleID, sales.StatusAssigned)
	h.recordAudit(r, "jobs.assignment.create", id, nil, a)
	api.Created(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "assignmentID")

	before, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "assignment_not_found", "assignment not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "assignment_get_failed", "failed to load assignment", middleware.GetRequestID(r.Context()))
		return
	}

	var payload assignmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	updated := before
	if strings.TrimSpace(payload.WorkerEmail) != "" {
		updated.WorkerEmail = strings.ToLower(strings.TrimSpace(payload.WorkerEmail))
	}
	if strings.TrimSpace(payload.Worker2Email) != "" {
		updated.Worker2Email = strings.ToLower(strings.TrimSpace(payload.Worker2Email))
	}
	if strings.TrimSpace(payload.When) != "" {
		updated.When = strings.TrimSpace(payload.When)
	}
	if payload.Status != "" {
		updated.Status = jobs.CanonicalStatus(payload.Status)
	}
	if payload.DurationHours != nil {
		updated.DurationHours = payload.DurationHours
	}
	if payload.Price != "" {
		updated.Price = strings.TrimSpace(payload.Price)
	}

	if err := h.Store.Update(r.Context(), updated); err != nil {
		api.Fail(w, http.StatusInternalServerError, "assignment_update_failed", "failed to update assignment", middleware.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, "jobs.assignment.update", id, before, updated)
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "assignmentID")

	a, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "assignment_not_found", "assignment not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "assignment_get_failed", "failed to load assignment", middleware.GetRequestID(r.Context()))
		return
	}

	doneAt := time.Now()
	if err := h.Store.Complete(r.Context(), id, doneAt); err != nil {
		api.Fail(w, http.StatusInternalServerError, "assignment_complete_failed", "failed to complete assignment", middleware.GetRequestID(r.Context()))
		return
	}

	h.markSale(r, a.SaleID, sales.StatusWorked)
	h.recordAudit(r, "jobs.assignment.complete", id, a, map[string]any{"doneAt": doneAt})

	a.Status = jobs.StatusCompleted
	a.Done = true
	a.DoneAt = &doneAt
	api.Success(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "assignmentID")

	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "assignment_not_found", "assignment not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "assignment_delete_failed", "failed to delete assignment", middleware.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, "jobs.assignment.delete", id, nil, nil)
	api.Success(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

// markSale moves the linked sale's status along the unassigned -> assigned ->
// worked track. The assignment is the source of truth; a missing sale is fine.
func (h *Handler) markSale(r *http.Request, saleID, status string) {
	sale, err := h.Sales.Get(r.Context(), saleID)
	if err != nil {
		return
	}
	if sale.Status == sales.StatusWorked && status == sales.StatusAssigned {
		return
	}
	sale.Status = status
	if err := h.Sales.Update(r.Context(), sale); err != nil {
		log.Printf("sale %s status update failed: %v", saleID, err)
	}
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, before, after any) {
	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.UserID
	}
	if err := h.Audit.Record(r.Context(), actor, action, "assignment", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		log.Printf("audit %s failed: %v", action, err)
	}
}

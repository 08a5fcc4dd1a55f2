package rosterhandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"crewpay/internal/domain/audit"
	"crewpay/internal/domain/roster"
	"crewpay/internal/transport/http/api"
	"crewpay/internal/transport/http/middleware"
	"crewpay/internal/transport/http/shared"
)

type Handler struct {
	Store *roster.Store
	Audit *audit.Service
}

func NewHandler(store *roster.Store, auditor *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/people", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(middleware.RequireRole(roster.RoleAdmin)).Post("/", h.handleCreate)
		r.Route("/{email}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.With(middleware.RequireRole(roster.RoleAdmin)).Put("/", h.handleUpdate)
			r.With(middleware.RequireRole(roster.RoleAdmin)).Delete("/", h.handleDelete)
		})
	})
}

type personPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	people, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "people_list_failed", "failed to list people", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, people, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	person, err := h.Store.Get(r.Context(), email)
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "person_not_found", "person not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "person_get_failed", "failed to load person", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, person, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload personPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	payload.Role = strings.ToLower(strings.TrimSpace(payload.Role))

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Required("name", payload.Name, "name is required")
	if payload.Role != "" && !roster.ValidRole(payload.Role) {
		v.Add("role", "must be one of admin, seller, worker, hybrid")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	if payload.Role == "" {
		payload.Role = roster.RoleWorker
	}

	person := roster.Person{
		Email:     payload.Email,
		Name:      strings.TrimSpace(payload.Name),
		Role:      payload.Role,
		CreatedAt: time.Now(),
	}
	if err := h.Store.Create(r.Context(), person); err != nil {
		api.Fail(w, http.StatusInternalServerError, "person_create_failed", "failed to create person", middleware.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, "roster.person.create", person.Email, nil, person)
	api.Created(w, person, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var payload personPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	payload.Role = strings.ToLower(strings.TrimSpace(payload.Role))

	before, err := h.Store.Get(r.Context(), email)
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "person_not_found", "person not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "person_get_failed", "failed to load person", middleware.GetRequestID(r.Context()))
		return
	}

	updated := before
	if strings.TrimSpace(payload.Name) != "" {
		updated.Name = strings.TrimSpace(payload.Name)
	}
	if payload.Role != "" {
		if !roster.ValidRole(payload.Role) {
			api.Fail(w, http.StatusBadRequest, "invalid_role", "must be one of admin, seller, worker, hybrid", middleware.GetRequestID(r.Context()))
			return
		}
		updated.Role = payload.Role
	}

	if err := h.Store.Update(r.Context(), updated); err != nil {
		api.Fail(w, http.StatusInternalServerError, "person_update_failed", "failed to update person", middleware.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, "roster.person.update", email, before, updated)
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	if err := h.Store.Delete(r.Context(), email); err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "person_not_found", "person not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "person_delete_failed", "failed to delete person", middleware.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, "roster.person.delete", email, nil, nil)
	api.Success(w, map[string]string{"email": email}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, before, after any) {
	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.UserID
	}
	if err := h.Audit.Record(r.Context(), actor, action, "person", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		log.Printf("audit %s failed: %v", action, err)
	}
}

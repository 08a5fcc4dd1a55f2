package audithandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"crewpay/internal/domain/audit"
	"crewpay/internal/domain/roster"
	"crewpay/internal/transport/http/api"
	"crewpay/internal/transport/http/middleware"
	"crewpay/internal/transport/http/shared"
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(auditor *audit.Service) *Handler {
	return &Handler{Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(roster.RoleAdmin)).Get("/audit", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	filter := audit.Filter{
		Action:     strings.TrimSpace(r.URL.Query().Get("action")),
		EntityType: strings.TrimSpace(r.URL.Query().Get("entityType")),
		ActorID:    strings.TrimSpace(r.URL.Query().Get("actorId")),
	}

	events, err := h.Audit.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}

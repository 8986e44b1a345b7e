package circularhandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"officehr/internal/domain/audit"
	"officehr/internal/domain/auth"
	"officehr/internal/domain/circular"
	"officehr/internal/platform/metrics"
	"officehr/internal/transport/http/api"
	"officehr/internal/transport/http/middleware"
	"officehr/internal/transport/http/shared"
)

type Handler struct {
	Service   *circular.Service
	Audit     *audit.Service
	Metrics   *metrics.Collector
	EmailFrom string
}

func NewHandler(service *circular.Service, auditSvc *audit.Service, collector *metrics.Collector, emailFrom string) *Handler {
	return &Handler{Service: service, Audit: auditSvc, Metrics: collector, EmailFrom: emailFrom}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	write := middleware.RequireRole(auth.RoleHR, auth.RoleAdmin)
	r.Route("/circulars", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.With(write).Post("/", h.handleCreateDraft)
		r.With(write).Post("/send", h.handleSend)
		r.Get("/departments", h.handleDepartments)
		r.Get("/{circularID}", h.handleGet)
		r.With(write).Put("/{circularID}", h.handleUpdate)
		r.With(write).Post("/{circularID}/publish", h.handlePublish)
		r.With(write).Delete("/{circularID}", h.handleDelete)
	})
}

type circularRequest struct {
	Title         *string  `json:"title" validate:"omitempty,max=200"`
	Category      *string  `json:"category" validate:"omitempty,max=100"`
	Content       *string  `json:"content" validate:"omitempty,max=20000"`
	EffectiveDate *string  `json:"effectiveDate"`
	ExpiryDate    *string  `json:"expiryDate"`
	Departments   []string `json:"departments" validate:"omitempty,dive,max=100"`
	Employees     []string `json:"employees"`
}

// patch converts the request, recording date issues on v.
func (p circularRequest) patch(v *shared.Validator) circular.Patch {
	out := circular.Patch{
		Title:       p.Title,
		Category:    p.Category,
		Content:     p.Content,
		Departments: p.Departments,
		EmployeeIDs: p.Employees,
	}
	if p.EffectiveDate != nil && *p.EffectiveDate != "" {
		if day, ok := v.Date("effectiveDate", *p.EffectiveDate); ok {
			out.EffectiveDate = &day
		}
	}
	if p.ExpiryDate != nil && *p.ExpiryDate != "" {
		if day, ok := v.Date("expiryDate", *p.ExpiryDate); ok {
			out.ExpiryDate = &day
		}
	}
	if out.EffectiveDate != nil && out.ExpiryDate != nil {
		v.DateOrder("effectiveDate", *out.EffectiveDate, "expiryDate", *out.ExpiryDate)
	}
	return out
}

// decodeNew reads a new circular from the body, writing the error response
// itself when the payload is unusable.
func (h *Handler) decodeNew(w http.ResponseWriter, r *http.Request) (circular.Circular, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var payload circularRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return circular.Circular{}, false
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if payload.Title == nil || *payload.Title == "" {
		validator.Add("title", "is required")
	}
	patch := payload.patch(validator)
	if validator.Reject(w, requestID) {
		return circular.Circular{}, false
	}
	user, _ := middleware.GetUser(r.Context())
	c := patch.Apply(circular.Circular{})
	c.CreatedBy = user.Email
	return c, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	items, total, err := h.Service.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		h.fail(w, r, err, "circular_list_failed", "failed to list circulars")
		return
	}
	api.Paged(w, items, total, page.Limit, page.Offset, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	c, ok := h.decodeNew(w, r)
	if !ok {
		return
	}
	created, err := h.Service.CreateDraft(r.Context(), c)
	if err != nil {
		h.fail(w, r, err, "circular_create_failed", "failed to save circular")
		return
	}
	h.record(r, "circular.create", created.ID, nil, created)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	c, ok := h.decodeNew(w, r)
	if !ok {
		return
	}
	delivery, err := h.Service.Send(r.Context(), c, h.EmailFrom)
	h.delivered(w, r, delivery, err)
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	delivery, err := h.Service.Publish(r.Context(), chi.URLParam(r, "circularID"), h.EmailFrom)
	h.delivered(w, r, delivery, err)
}

func (h *Handler) delivered(w http.ResponseWriter, r *http.Request, delivery circular.Delivery, err error) {
	for range delivery.Sent {
		h.Metrics.EmailResult(nil)
	}
	if err != nil {
		if errors.Is(err, circular.ErrDelivery) {
			h.Metrics.EmailResult(err)
		}
		h.fail(w, r, err, "circular_publish_failed", "failed to publish circular")
		return
	}
	h.Metrics.CircularPublished()
	h.record(r, "circular.publish", delivery.Circular.ID, nil, delivery.Circular)
	api.Success(w, delivery, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDepartments(w http.ResponseWriter, r *http.Request) {
	depts, err := h.Service.Departments(r.Context())
	if err != nil {
		h.fail(w, r, err, "department_list_failed", "failed to list departments")
		return
	}
	api.Success(w, depts, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Get(r.Context(), chi.URLParam(r, "circularID"))
	if err != nil {
		h.fail(w, r, err, "circular_get_failed", "failed to load circular")
		return
	}
	api.Success(w, c, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload circularRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	patch := payload.patch(validator)
	if validator.Reject(w, requestID) {
		return
	}

	before, after, err := h.Service.Update(r.Context(), chi.URLParam(r, "circularID"), patch)
	if err != nil {
		h.fail(w, r, err, "circular_update_failed", "failed to update circular")
		return
	}
	h.record(r, "circular.update", after.ID, before, after)
	api.Success(w, after, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Delete(r.Context(), chi.URLParam(r, "circularID"))
	if err != nil {
		h.fail(w, r, err, "circular_delete_failed", "failed to delete circular")
		return
	}
	h.record(r, "circular.delete", c.ID, c, nil)
	api.Success(w, map[string]string{"id": c.ID, "status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, circular.ErrCircularNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "circular not found", requestID)
	case errors.Is(err, circular.ErrInvalidInput):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	case errors.Is(err, circular.ErrAlreadyPublished):
		api.Fail(w, http.StatusConflict, "already_published", err.Error(), requestID)
	case errors.Is(err, circular.ErrNoRecipients):
		api.Fail(w, http.StatusUnprocessableEntity, "no_recipients", err.Error(), requestID)
	default:
		slog.Error(message, "request_id", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message+": "+err.Error(), requestID)
	}
}

func (h *Handler) record(r *http.Request, action, id string, before, after any) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, action, audit.EntityCircular, id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

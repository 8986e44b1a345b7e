package employeehandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"officehr/internal/domain/audit"
	"officehr/internal/domain/auth"
	"officehr/internal/domain/employee"
	"officehr/internal/transport/http/api"
	"officehr/internal/transport/http/middleware"
	"officehr/internal/transport/http/shared"
)

type Handler struct {
	Service *employee.Service
	Audit   *audit.Service
}

func NewHandler(service *employee.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	write := middleware.RequireRole(auth.RoleHR, auth.RoleAdmin)
	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.With(write).Post("/", h.handleCreate)
		r.Get("/code/{code}", h.handleGetByCode)
		r.Get("/{employeeID}", h.handleGet)
		r.With(write).Put("/{employeeID}", h.handleUpdate)
		r.With(write).Delete("/{employeeID}", h.handleDelete)
	})
}

type employeeRequest struct {
	EmployeeCode *string `json:"employeeId"`
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone"`
	Location     *string `json:"location"`
	Department   *string `json:"department"`
	Role         *string `json:"role"`
	Gender       *string `json:"gender"`
	EmployeeType *string `json:"employeeType" validate:"omitempty,oneof=Full-time Part-time Internship Contract"`
	WorkMode     *string `json:"workMode" validate:"omitempty,oneof=Onsite Remote Hybrid"`
	Status       *string `json:"status" validate:"omitempty,oneof=Probation Away Active Inactive"`
	ManagerID    *string `json:"manager"`
	JoinDate     *string `json:"joinDate"`
	PanNo        *string `json:"panNo"`
	UanNo        *string `json:"uanNo"`
	PfNo         *string `json:"pfNo"`
}

// patch converts the request, recording a date issue on v.
func (p employeeRequest) patch(v *shared.Validator) employee.Patch {
	out := employee.Patch{
		EmployeeCode: p.EmployeeCode,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		Phone:        p.Phone,
		Location:     p.Location,
		Department:   p.Department,
		Role:         p.Role,
		Gender:       p.Gender,
		EmployeeType: p.EmployeeType,
		WorkMode:     p.WorkMode,
		Status:       p.Status,
		ManagerID:    p.ManagerID,
		PanNo:        p.PanNo,
		UanNo:        p.UanNo,
		PfNo:         p.PfNo,
	}
	if p.JoinDate != nil {
		if day, ok := v.Date("joinDate", *p.JoinDate); ok {
			out.JoinDate = &day
		}
	}
	return out
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 100, 500)
	items, total, err := h.Service.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		h.fail(w, r, err, "employee_list_failed", "failed to list employees")
		return
	}
	api.Paged(w, items, total, page.Limit, page.Offset, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload employeeRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if payload.JoinDate == nil {
		validator.Add("joinDate", "is required")
	}
	patch := payload.patch(validator)
	if validator.Reject(w, requestID) {
		return
	}

	created, err := h.Service.Create(r.Context(), patch.Apply(employee.Employee{}))
	if err != nil {
		h.fail(w, r, err, "employee_create_failed", "failed to create employee")
		return
	}
	h.record(r, "employee.create", created.ID, nil, created)
	api.Created(w, created, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.fail(w, r, err, "employee_get_failed", "failed to load employee")
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetByCode(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.FindByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, r, err, "employee_get_failed", "failed to load employee")
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload employeeRequest
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

	before, after, err := h.Service.Update(r.Context(), chi.URLParam(r, "employeeID"), patch)
	if err != nil {
		h.fail(w, r, err, "employee_update_failed", "failed to update employee")
		return
	}
	h.record(r, "employee.update", after.ID, before, after)
	api.Success(w, after, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.Delete(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.fail(w, r, err, "employee_delete_failed", "failed to delete employee")
		return
	}
	h.record(r, "employee.delete", emp.ID, emp, nil)
	api.Success(w, map[string]string{"id": emp.ID, "status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
	case errors.Is(err, employee.ErrManagerNotFound):
		api.Fail(w, http.StatusBadRequest, "manager_not_found", err.Error(), requestID)
	case errors.Is(err, employee.ErrInvalidInput):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	case errors.Is(err, employee.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, "email_taken", err.Error(), requestID)
	default:
		slog.Error(message, "request_id", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}

func (h *Handler) record(r *http.Request, action, id string, before, after any) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, action, audit.EntityEmployee, id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

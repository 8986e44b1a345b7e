package leavehandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"officehr/internal/domain/audit"
	"officehr/internal/domain/auth"
	"officehr/internal/domain/employee"
	"officehr/internal/domain/leave"
	"officehr/internal/transport/http/api"
	"officehr/internal/transport/http/middleware"
	"officehr/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Audit   *audit.Service
}

func NewHandler(service *leave.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	write := middleware.RequireRole(auth.RoleHR, auth.RoleAdmin)
	r.Route("/leaves", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(write).Post("/", h.handleCreate)
		r.Get("/employee/{code}", h.handleListByEmployee)
		r.Get("/calendar/{code}/{month}/{year}", h.handleCalendar)
		r.Get("/on-date/{date}", h.handleOnDate)
		r.Get("/lop/{code}/{month}/{year}", h.handleLop)
		r.With(write).Delete("/{leaveID}", h.handleDelete)
	})
}

type createRequest struct {
	EmployeeCode string `json:"employeeId" validate:"required"`
	Type         string `json:"leaveType" validate:"required,oneof=PAID_LEAVE CASUAL_LEAVE SICK_LEAVE HALF_DAY LOP"`
	StartDate    string `json:"startDate" validate:"required"`
	EndDate      string `json:"endDate" validate:"required"`
	Status       string `json:"status" validate:"omitempty,oneof=Approved Pending Rejected"`
	Reason       string `json:"reason" validate:"max=500"`
}

type lopResponse struct {
	EmployeeCode string  `json:"employeeId"`
	Month        string  `json:"month"`
	Year         int     `json:"year"`
	LopDays      float64 `json:"lopDays"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload createRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	var input leave.CreateInput
	if payload.StartDate != "" && payload.EndDate != "" {
		start, okStart := validator.Date("startDate", payload.StartDate)
		end, okEnd := validator.Date("endDate", payload.EndDate)
		if okStart && okEnd {
			validator.DateOrder("startDate", start, "endDate", end)
		}
		input.StartDate, input.EndDate = start, end
	}
	if validator.Reject(w, requestID) {
		return
	}
	input.EmployeeCode = payload.EmployeeCode
	input.Type = payload.Type
	input.Status = payload.Status
	input.Reason = payload.Reason
	input.ApprovedBy = user.Email

	rec, err := h.Service.Create(r.Context(), input)
	if err != nil {
		h.fail(w, r, err, "leave_create_failed", "failed to record leave")
		return
	}
	h.record(r, "leave.create", rec.ID, nil, rec)
	api.Created(w, rec, requestID)
}

func (h *Handler) handleListByEmployee(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListByEmployee(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, r, err, "leave_list_failed", "failed to list leaves")
		return
	}
	api.Success(w, nonNil(items), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}
	items, err := h.Service.Calendar(r.Context(), chi.URLParam(r, "code"), chi.URLParam(r, "month"), year)
	if err != nil {
		h.fail(w, r, err, "leave_calendar_failed", "failed to load leave calendar")
		return
	}
	api.Success(w, nonNil(items), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOnDate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	validator := shared.NewValidator()
	day, _ := validator.Date("date", chi.URLParam(r, "date"))
	if validator.Reject(w, requestID) {
		return
	}
	items, err := h.Service.OnDate(r.Context(), day)
	if err != nil {
		h.fail(w, r, err, "leave_on_date_failed", "failed to list leaves on date")
		return
	}
	api.Success(w, items, requestID)
}

func (h *Handler) handleLop(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}
	code := chi.URLParam(r, "code")
	days, err := h.Service.ComputeLopDays(r.Context(), code, chi.URLParam(r, "month"), year)
	if err != nil {
		h.fail(w, r, err, "leave_lop_failed", "failed to compute loss of pay")
		return
	}
	api.Success(w, lopResponse{EmployeeCode: code, Month: chi.URLParam(r, "month"), Year: year, LopDays: days}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Delete(r.Context(), chi.URLParam(r, "leaveID"))
	if err != nil {
		h.fail(w, r, err, "leave_delete_failed", "failed to delete leave")
		return
	}
	h.record(r, "leave.delete", rec.ID, rec, nil)
	api.Success(w, map[string]string{"id": rec.ID, "status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		validator := shared.NewValidator()
		validator.Add("year", "must be a number")
		validator.Reject(w, middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return year, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, leave.ErrLeaveNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave not found", requestID)
	case errors.Is(err, employee.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
	case errors.Is(err, leave.ErrInvalidInput), errors.Is(err, leave.ErrInvalidLeaveType),
		errors.Is(err, leave.ErrInvalidStatus), errors.Is(err, leave.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	default:
		slog.Error(message, "request_id", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}

func (h *Handler) record(r *http.Request, action, id string, before, after any) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, action, audit.EntityLeave, id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func nonNil(items []leave.Record) []leave.Record {
	if items == nil {
		return []leave.Record{}
	}
	return items
}

package payrollhandler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"officehr/internal/domain/audit"
	"officehr/internal/domain/auth"
	"officehr/internal/domain/payroll"
	"officehr/internal/platform/email"
	"officehr/internal/platform/metrics"
	"officehr/internal/transport/http/api"
	"officehr/internal/transport/http/middleware"
	"officehr/internal/transport/http/shared"
)

type Handler struct {
	Service   *payroll.Service
	Audit     *audit.Service
	Metrics   *metrics.Collector
	Payslip   payroll.PayslipOptions
	EmailFrom string
}

func NewHandler(service *payroll.Service, auditSvc *audit.Service, collector *metrics.Collector, opts payroll.PayslipOptions, emailFrom string) *Handler {
	if collector == nil {
		collector = metrics.New()
	}
	return &Handler{Service: service, Audit: auditSvc, Metrics: collector, Payslip: opts, EmailFrom: emailFrom}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	write := middleware.RequireRole(auth.RoleHR, auth.RoleAdmin)
	r.Route("/payroll", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.With(write).Post("/", h.handleBuild)
		r.Post("/totals", h.handleTotals)
		r.Get("/{payrollID}", h.handleGet)
		r.With(write).Put("/{payrollID}", h.handleUpdate)
		r.With(write).Delete("/{payrollID}", h.handleDelete)
		r.Get("/{payrollID}/preview", h.handlePreview)
		r.With(write).Post("/{payrollID}/send-email", h.handleSendEmail)
	})
}

type payrollData struct {
	Earnings   map[string]any `json:"earnings"`
	Deductions map[string]any `json:"deductions"`
	TotalDays  *float64       `json:"totalDays" validate:"omitempty,gte=0,lte=31"`
	PaidDays   *float64       `json:"paidDays"`
	LopDays    *float64       `json:"lopDays"`
	ArrearDays *float64       `json:"arrearDays" validate:"omitempty,gte=0"`
	PanNo      *string        `json:"panNo"`
	UanNo      *string        `json:"uanNo"`
	PfNo       *string        `json:"pfNo"`
	EsiNo      *string        `json:"esiNo"`
	BankName   *string        `json:"bankName"`
	AccountNo  *string        `json:"accountNo"`
}

type buildRequest struct {
	EmployeeIDs []string    `json:"employeeIds" validate:"required,min=1,dive,required"`
	Month       string      `json:"month" validate:"required"`
	Year        int         `json:"year" validate:"required,gte=1900,lte=9999"`
	PayrollData payrollData `json:"payrollData"`
}

type updateRequest struct {
	Month           *string     `json:"month"`
	Year            *int        `json:"year" validate:"omitempty,gte=1900,lte=9999"`
	ExpectedVersion *int        `json:"expectedVersion" validate:"omitempty,gte=1"`
	PayrollData     payrollData `json:"payrollData"`
}

type totalsRequest struct {
	Earnings   map[string]any `json:"earnings"`
	Deductions map[string]any `json:"deductions"`
}

type totalsResponse struct {
	payroll.Totals
	AmountInWords string            `json:"amountInWords"`
	Warnings      []payroll.Warning `json:"warnings,omitempty"`
}

type emailResponse struct {
	Status string `json:"status"`
	To     string `json:"to"`
}

func (h *Handler) handleBuild(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	var payload buildRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, requestID) {
		return
	}

	data := payload.PayrollData
	input := payroll.RawInput{
		Earnings:   data.Earnings,
		Deductions: data.Deductions,
		ArrearDays: valueOr(data.ArrearDays, 0),
		PanNo:      valueOr(data.PanNo, ""),
		UanNo:      valueOr(data.UanNo, ""),
		PfNo:       valueOr(data.PfNo, ""),
		EsiNo:      valueOr(data.EsiNo, ""),
		BankName:   valueOr(data.BankName, ""),
		AccountNo:  valueOr(data.AccountNo, ""),
		CreatedBy:  user.Email,
	}
	rec, err := h.Service.Build(r.Context(), payroll.BuildInput{
		EmployeeIDs: payload.EmployeeIDs,
		Month:       payload.Month,
		Year:        payload.Year,
		Input:       input,
	})
	if err != nil {
		h.fail(w, r, err, "payroll_build_failed", "failed to build payroll record")
		return
	}
	h.Metrics.PayrollBuilt()
	h.record(r, "payroll.create", rec.ID, nil, rec)
	api.Created(w, rec, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	items, total, err := h.Service.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		h.fail(w, r, err, "payroll_list_failed", "failed to list payroll records")
		return
	}
	api.Paged(w, items, total, page.Limit, page.Offset, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "payrollID"))
	if err != nil {
		h.fail(w, r, err, "payroll_get_failed", "failed to load payroll record")
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "payrollID")

	var payload updateRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, requestID) {
		return
	}

	before, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "payroll_update_failed", "failed to update payroll record")
		return
	}
	data := payload.PayrollData
	rec, err := h.Service.Update(r.Context(), id, payroll.Revision{
		Month:           payload.Month,
		Year:            payload.Year,
		TotalDays:       data.TotalDays,
		PaidDays:        data.PaidDays,
		LopDays:         data.LopDays,
		ArrearDays:      data.ArrearDays,
		Earnings:        data.Earnings,
		Deductions:      data.Deductions,
		PanNo:           data.PanNo,
		UanNo:           data.UanNo,
		PfNo:            data.PfNo,
		EsiNo:           data.EsiNo,
		BankName:        data.BankName,
		AccountNo:       data.AccountNo,
		ExpectedVersion: payload.ExpectedVersion,
	})
	if err != nil {
		h.fail(w, r, err, "payroll_update_failed", "failed to update payroll record")
		return
	}
	h.Metrics.PayrollUpdated()
	h.record(r, "payroll.update", rec.ID, before, rec)
	api.Success(w, rec, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Delete(r.Context(), chi.URLParam(r, "payrollID"))
	if err != nil {
		h.fail(w, r, err, "payroll_delete_failed", "failed to delete payroll record")
		return
	}
	h.record(r, "payroll.delete", rec.ID, rec, nil)
	api.Success(w, map[string]string{"id": rec.ID, "status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTotals(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload totalsRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	totals, warnings := payroll.PreviewTotals(payload.Earnings, payload.Deductions)
	api.Success(w, totalsResponse{
		Totals:        totals,
		AmountInWords: payroll.AmountInWords(totals.NetSalary),
		Warnings:      warnings,
	}, requestID)
}

// handlePreview streams the payslip PDF. ?download=1 asks the browser to save
// it; ?employeeId picks one employee of a batch record.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	opts := h.Payslip
	opts.EmployeeID = r.URL.Query().Get("employeeId")
	rec, pdf, err := h.Service.Payslip(r.Context(), chi.URLParam(r, "payrollID"), opts)
	if err != nil {
		h.fail(w, r, err, "payslip_render_failed", "failed to generate payslip")
		return
	}
	h.Metrics.PayslipRendered()

	disposition := "inline"
	if r.URL.Query().Get("download") == "1" {
		disposition = "attachment"
	}
	filename := payroll.PayslipName(rec, opts.EmployeeID)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		slog.Warn("payslip write failed", "payroll_id", rec.ID, "err", err)
	}
}

func (h *Handler) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "payrollID")
	opts := h.Payslip
	opts.EmployeeID = r.URL.Query().Get("employeeId")

	to, err := h.Service.EmailPayslip(r.Context(), id, h.EmailFrom, opts)
	if err != nil {
		if !errors.Is(err, payroll.ErrRecordNotFound) {
			h.Metrics.EmailResult(err)
		}
		h.fail(w, r, err, "payslip_email_failed", "failed to send email")
		return
	}
	h.Metrics.EmailResult(nil)
	h.Metrics.PayslipRendered()
	h.record(r, "payroll.email", id, nil, map[string]string{"to": to})
	api.Success(w, emailResponse{Status: "sent", To: to}, requestID)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrRecordNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll record not found", requestID)
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", err.Error(), requestID)
	case errors.Is(err, payroll.ErrInvalidInput):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	case errors.Is(err, payroll.ErrVersionConflict):
		api.Fail(w, http.StatusConflict, "version_conflict", err.Error(), requestID)
	case errors.Is(err, payroll.ErrNoRecipient), errors.Is(err, email.ErrNoRecipient):
		api.Fail(w, http.StatusUnprocessableEntity, "no_recipient", "employee has no email address", requestID)
	default:
		slog.Error(message, "request_id", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message+": "+err.Error(), requestID)
	}
}

func (h *Handler) record(r *http.Request, action, id string, before, after any) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, action, audit.EntityPayroll, id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

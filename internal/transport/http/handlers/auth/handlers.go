package authhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"officehr/internal/domain/audit"
	"officehr/internal/domain/auth"
	"officehr/internal/transport/http/api"
	"officehr/internal/transport/http/middleware"
	"officehr/internal/transport/http/shared"
)

type Handler struct {
	Service      *auth.Service
	Audit        *audit.Service
	SecureCookie bool
	// LoginLimit throttles login and register; nil disables it.
	LoginLimit func(http.Handler) http.Handler
}

func NewHandler(service *auth.Service, auditSvc *audit.Service, secureCookie bool, loginLimit func(http.Handler) http.Handler) *Handler {
	return &Handler{Service: service, Audit: auditSvc, SecureCookie: secureCookie, LoginLimit: loginLimit}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if h.LoginLimit != nil {
				r.Use(h.LoginLimit)
			}
			r.Post("/login", h.HandleLogin)
			r.Post("/register", h.HandleRegister)
		})
		r.Post("/logout", h.HandleLogout)
		r.With(middleware.RequireAuth).Get("/me", h.handleMe)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Get("/users", h.handleListUsers)
			r.Get("/users/pending", h.handleListPending)
			r.Post("/users/{userID}/approve", h.handleApprove)
			r.Post("/users/{userID}/reject", h.handleReject)
		})
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=HR ADMIN"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, requestID) {
		return
	}

	session, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		h.fail(w, r, err, "login_failed", "failed to log in")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	api.Success(w, session, requestID)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload registerRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, requestID) {
		return
	}

	user, err := h.Service.Register(r.Context(), payload.Name, payload.Email, payload.Password, payload.Role)
	if err != nil {
		h.fail(w, r, err, "register_failed", "failed to register user")
		return
	}
	h.record(r, "user.register", user.ID, nil, user)
	api.Created(w, user, requestID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())
	user, err := h.Service.GetUser(r.Context(), caller.UserID)
	if err != nil {
		h.fail(w, r, err, "user_get_failed", "failed to load user")
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	status := r.URL.Query().Get("status")
	validator := shared.NewValidator()
	validator.Var("status", status, "omitempty,oneof="+strings.Join([]string{auth.StatusPending, auth.StatusActive, auth.StatusRejected}, " "))
	if validator.Reject(w, requestID) {
		return
	}
	h.listUsers(w, r, status)
}

func (h *Handler) handleListPending(w http.ResponseWriter, r *http.Request) {
	h.listUsers(w, r, auth.StatusPending)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request, status string) {
	users, err := h.Service.ListUsers(r.Context(), status)
	if err != nil {
		h.fail(w, r, err, "user_list_failed", "failed to list users")
		return
	}
	if users == nil {
		users = []auth.User{}
	}
	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, "user.approve", h.Service.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, "user.reject", h.Service.Reject)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, action string, apply func(ctx context.Context, id string) (auth.User, error)) {
	user, err := apply(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, err, "user_update_failed", "failed to update user")
		return
	}
	h.record(r, action, user.ID, nil, map[string]string{"status": user.Status})
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
	case errors.Is(err, auth.ErrUserNotActive):
		api.Fail(w, http.StatusForbidden, "account_not_active", "account is awaiting approval or was rejected", requestID)
	case errors.Is(err, auth.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, "email_taken", "user already exists", requestID)
	case errors.Is(err, auth.ErrInvalidRole):
		api.Fail(w, http.StatusBadRequest, "invalid_role", err.Error(), requestID)
	case errors.Is(err, auth.ErrUserNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestID)
	default:
		slog.Error(message, "request_id", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}

func (h *Handler) record(r *http.Request, action, id string, before, after any) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, action, audit.EntityUser, id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

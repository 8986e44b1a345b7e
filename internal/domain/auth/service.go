package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	store  StoreAPI
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	return &Service{store: store, secret: secret, ttl: ttl, now: time.Now}
}

type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Register creates a pending account that an ADMIN must approve before it can
// log in.
func (s *Service) Register(ctx context.Context, name, email, password, role string) (User, error) {
	if role == "" {
		role = RoleAdmin
	}
	if role != RoleHR && role != RoleAdmin {
		return User{}, ErrInvalidRole
	}
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
		Status:       StatusPending,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login checks credentials and issues a signed token. Unknown emails and wrong
// passwords are reported the same way.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.store.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if user.Status != StatusActive {
		return Session{}, ErrUserNotActive
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	token, expires, err := GenerateToken(s.secret, Claims{UserID: user.ID, Email: user.Email, Role: user.Role}, s.ttl)
	if err != nil {
		return Session{}, err
	}
	if err := s.store.TouchLogin(ctx, user.ID); err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token, ExpiresAt: expires}, nil
}

func (s *Service) Authenticate(token string) (*Claims, error) {
	return ParseToken(s.secret, token)
}

func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, status string) ([]User, error) {
	switch status {
	case "", StatusPending, StatusActive, StatusRejected:
	default:
		return nil, fmt.Errorf("unknown status %q", status)
	}
	return s.store.List(ctx, status)
}

func (s *Service) Approve(ctx context.Context, id string) (User, error) {
	return s.setStatus(ctx, id, StatusActive)
}

func (s *Service) Reject(ctx context.Context, id string) (User, error) {
	return s.setStatus(ctx, id, StatusRejected)
}

func (s *Service) setStatus(ctx context.Context, id, status string) (User, error) {
	if err := s.store.SetStatus(ctx, id, status); err != nil {
		return User{}, err
	}
	return s.store.Get(ctx, id)
}

// EnsureAdmin creates an active ADMIN account for email, or activates and
// resets the password of an existing one.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) (User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return User{}, fmt.Errorf("admin email and password are required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}
	existing, err := s.store.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		user := User{
			ID:           uuid.NewString(),
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         RoleAdmin,
			Status:       StatusActive,
			CreatedAt:    s.now().UTC(),
		}
		if err := s.store.Create(ctx, user); err != nil {
			return User{}, err
		}
		return user, nil
	case err != nil:
		return User{}, err
	}
	if err := s.store.SetPassword(ctx, existing.ID, hash); err != nil {
		return User{}, err
	}
	if err := s.store.SetStatus(ctx, existing.ID, StatusActive); err != nil {
		return User{}, err
	}
	return s.store.Get(ctx, existing.ID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

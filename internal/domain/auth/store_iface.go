package auth

import "context"

type StoreAPI interface {
	Create(ctx context.Context, user User) error
	Get(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, status string) ([]User, error)
	SetStatus(ctx context.Context, id, status string) error
	SetPassword(ctx context.Context, id, hash string) error
	TouchLogin(ctx context.Context, id string) error
}

package employee

import "context"

type StoreAPI interface {
	Create(ctx context.Context, emp Employee) error
	Get(ctx context.Context, id string) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, limit, offset int) ([]Employee, error)
	Update(ctx context.Context, emp Employee) error
	Delete(ctx context.Context, id string) error
}

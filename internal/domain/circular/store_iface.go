package circular

import "context"

type StoreAPI interface {
	Create(ctx context.Context, c Circular) error
	Get(ctx context.Context, id string) (Circular, error)
	Count(ctx context.Context) (int, error)
	// List returns newest first.
	List(ctx context.Context, limit, offset int) ([]Circular, error)
	Update(ctx context.Context, c Circular) error
	Delete(ctx context.Context, id string) error
}

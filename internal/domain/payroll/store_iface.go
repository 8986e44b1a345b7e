package payroll

import "context"

type StoreAPI interface {
	Create(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, limit, offset int) ([]Record, error)
	// Update replaces rec and bumps its version. A non-zero expectedVersion
	// must match the stored version or ErrVersionConflict is returned.
	Update(ctx context.Context, rec Record, expectedVersion int) (int, error)
	Delete(ctx context.Context, id string) error
}

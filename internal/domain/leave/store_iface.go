package leave

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	ListByEmployee(ctx context.Context, employeeCode string) ([]Record, error)
	ListForMonth(ctx context.Context, employeeCode, month string, year int) ([]Record, error)
	ListOnDate(ctx context.Context, day time.Time) ([]Record, error)
	Delete(ctx context.Context, id string) error
}

package club

import "context"

// Repository describes club persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Club, bool, error)
	Search(ctx context.Context, tsquery string, limit int) ([]Club, error)
	Upsert(ctx context.Context, c Club) error
}

package standing

import (
	"context"
	"time"
)

// Repository describes standing persistence needs from use cases.
type Repository interface {
	// ListUpdatedSince returns the player's standings refreshed at or after since.
	ListUpdatedSince(ctx context.Context, playerID int64, since time.Time) ([]Standing, error)
	// Upsert writes every item keyed by (player, category).
	Upsert(ctx context.Context, items []Standing) error
}

package tournament

import "context"

// Repository describes tournament persistence needs from use cases.
type Repository interface {
	ListByPlayer(ctx context.Context, playerID int64) ([]Tournament, error)
	// Upsert writes every item keyed by (player, tournament).
	Upsert(ctx context.Context, items []Tournament) error
}

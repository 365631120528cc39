package match

import "context"

// Repository describes game persistence needs from use cases.
type Repository interface {
	// ListGamesByMatch returns the stored games of a team match in no particular order.
	ListGamesByMatch(ctx context.Context, matchID int64) ([]Game, error)
	// UpsertGame writes g keyed by (match, category).
	UpsertGame(ctx context.Context, matchID int64, g Game) error
}

package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Player, bool, error)
	// SearchByName runs a full-text query such as "anders | jensen" against player names.
	SearchByName(ctx context.Context, tsquery string, limit int) ([]Player, error)
	ListByNames(ctx context.Context, names []string) ([]Player, error)
	ListByClub(ctx context.Context, clubID int64) ([]Player, error)
	Upsert(ctx context.Context, p Player) error
	// LookupIDs resolves many (name, club) pairs in one round trip. Unresolved pairs are omitted.
	LookupIDs(ctx context.Context, lookups []Lookup) ([]LookupResult, error)
}

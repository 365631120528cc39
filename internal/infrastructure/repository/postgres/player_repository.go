package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	qb "github.com/riskibarqy/badminton-stats/internal/platform/querybuilder"
)

type PlayerRepository struct {
	conn
}

const playerFrom = "players p LEFT JOIN clubs c ON c.id = p.club_id"

var playerSelectColumns = []string{
	"p.id",
	"p.name",
	"p.club_id",
	"p.birth_date",
	"c.name AS club_name",
}

func NewPlayerRepository(db *sqlx.DB, timeout time.Duration) *PlayerRepository {
	return &PlayerRepository{conn: newConn(db, timeout)}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := qb.Select(playerSelectColumns...).From(playerFrom).
		Where(qb.Eq("p.id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player by id query: %w", err)
	}

	var row playerRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) SearchByName(ctx context.Context, tsquery string, limit int) ([]player.Player, error) {
	if strings.TrimSpace(tsquery) == "" {
		return []player.Player{}, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := qb.Select(playerSelectColumns...).From(playerFrom).
		Where(qb.TextSearch("p.name_tsv", tsquery)).
		OrderBy("p.id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build search players query: %w", err)
	}

	return r.selectPlayers(ctx, "search players", query, args)
}

func (r *PlayerRepository) ListByNames(ctx context.Context, names []string) ([]player.Player, error) {
	trimmed := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			trimmed = append(trimmed, n)
		}
	}
	if len(trimmed) == 0 {
		return []player.Player{}, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := qb.Select(playerSelectColumns...).From(playerFrom).
		Where(qb.In("p.name", trimmed)).
		OrderBy("p.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by names query: %w", err)
	}

	return r.selectPlayers(ctx, "select players by names", query, args)
}

func (r *PlayerRepository) ListByClub(ctx context.Context, clubID int64) ([]player.Player, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := qb.Select(playerSelectColumns...).From(playerFrom).
		Where(qb.Eq("p.club_id", clubID)).
		OrderBy("p.name", "p.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by club query: %w", err)
	}

	return r.selectPlayers(ctx, "select players by club", query, args)
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) error {
	p = p.Normalized()
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validate player: %w", err)
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	model := playerTableModel{
		ID:        p.ID,
		Name:      p.Name,
		ClubID:    nullInt64(p.ClubID),
		BirthDate: nullTime(p.BirthDate),
	}
	query, args, err := qb.InsertModel("players", model,
		qb.OnConflict("id").
			DoUpdate("name", "club_id").
			Set("birth_date = COALESCE(EXCLUDED.birth_date, players.birth_date)").
			Set("updated_at = NOW()"),
	)
	if err != nil {
		return fmt.Errorf("build upsert player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player id=%d: %w", p.ID, err)
	}
	return nil
}

// LookupIDs calls lookup_player_ids, which matches names case-insensitively and accepts
// team names ("Vejlby IK 2") in place of club names.
func (r *PlayerRepository) LookupIDs(ctx context.Context, lookups []player.Lookup) ([]player.LookupResult, error) {
	if len(lookups) == 0 {
		return []player.LookupResult{}, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	names := make([]string, 0, len(lookups))
	clubs := make([]string, 0, len(lookups))
	for _, l := range lookups {
		names = append(names, l.Name)
		clubs = append(clubs, l.Club)
	}

	var rows []lookupRow
	const query = `SELECT lookup_name, lookup_club, player_id FROM lookup_player_ids($1, $2)`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(names), pq.Array(clubs)); err != nil {
		return nil, fmt.Errorf("lookup player ids: %w", err)
	}

	out := make([]player.LookupResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.LookupResult{Name: row.Name, Club: row.Club, ID: row.PlayerID})
	}
	return out, nil
}

func (r *PlayerRepository) selectPlayers(ctx context.Context, op, query string, args []any) ([]player.Player, error) {
	var rows []playerRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

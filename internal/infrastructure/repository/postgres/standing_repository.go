package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/badminton-stats/internal/domain/standing"
	qb "github.com/riskibarqy/badminton-stats/internal/platform/querybuilder"
)

type StandingRepository struct {
	conn
}

var standingSelectColumns = qb.Columns(standingTableModel{})

func NewStandingRepository(db *sqlx.DB, timeout time.Duration) *StandingRepository {
	return &StandingRepository{conn: newConn(db, timeout)}
}

func (r *StandingRepository) ListUpdatedSince(ctx context.Context, playerID int64, since time.Time) ([]standing.Standing, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := qb.Select(standingSelectColumns...).From("standings").
		Where(
			qb.Eq("player_id", playerID),
			qb.Gte("updated_at", since),
		).
		OrderBy("category").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select standings: %w", err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Upsert writes the batch in one statement. Duplicate categories within a batch keep the last one,
// since Postgres rejects a statement that touches the same conflict key twice.
func (r *StandingRepository) Upsert(ctx context.Context, items []standing.Standing) error {
	if len(items) == 0 {
		return nil
	}

	order := make([]string, 0, len(items))
	latest := make(map[string]standing.Standing, len(items))
	for _, item := range items {
		item.Category = strings.TrimSpace(item.Category)
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate standing: %w", err)
		}
		key := fmt.Sprintf("%d|%s", item.PlayerID, item.Category)
		if _, seen := latest[key]; !seen {
			order = append(order, key)
		}
		latest[key] = item
	}

	models := make([]any, 0, len(order))
	for _, key := range order {
		models = append(models, standingModelFromDomain(latest[key]))
	}

	query, args, err := qb.InsertModels("standings", models,
		qb.OnConflict("player_id", "category").DoUpdate("tier", "points", "matches", "rank", "updated_at"),
	)
	if err != nil {
		return fmt.Errorf("build upsert standings query: %w", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert standings: %w", err)
	}
	return nil
}

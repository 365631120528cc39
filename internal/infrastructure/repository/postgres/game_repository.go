package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/badminton-stats/internal/domain/match"
	qb "github.com/riskibarqy/badminton-stats/internal/platform/querybuilder"
)

type GameRepository struct {
	conn
}

var gameSelectColumns = []string{
	"match_id",
	"category",
	"played_at",
	"home_player1",
	"home_player2",
	"away_player1",
	"away_player2",
	"sets::text AS sets",
}

func NewGameRepository(db *sqlx.DB, timeout time.Duration) *GameRepository {
	return &GameRepository{conn: newConn(db, timeout)}
}

func (r *GameRepository) ListGamesByMatch(ctx context.Context, matchID int64) ([]match.Game, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := qb.Select(gameSelectColumns...).From("games").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games of match=%d: %w", matchID, err)
	}

	out := make([]match.Game, 0, len(rows))
	for _, row := range rows {
		g, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *GameRepository) UpsertGame(ctx context.Context, matchID int64, g match.Game) error {
	g.Category = strings.TrimSpace(g.Category)
	if err := g.Validate(); err != nil {
		return fmt.Errorf("validate game: %w", err)
	}
	model, err := gameModelFromDomain(matchID, g)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("games", model,
		qb.OnConflict("match_id", "category").
			DoUpdate("played_at", "home_player1", "home_player2", "away_player1", "away_player2", "sets").
			Set("updated_at = NOW()"),
	)
	if err != nil {
		return fmt.Errorf("build upsert game query: %w", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert game match=%d category=%s: %w", matchID, g.Category, err)
	}
	return nil
}

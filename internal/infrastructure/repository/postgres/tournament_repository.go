package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/badminton-stats/internal/domain/tournament"
	qb "github.com/riskibarqy/badminton-stats/internal/platform/querybuilder"
)

type TournamentRepository struct {
	conn
}

var tournamentSelectColumns = qb.Columns(tournamentTableModel{})

func NewTournamentRepository(db *sqlx.DB, timeout time.Duration) *TournamentRepository {
	return &TournamentRepository{conn: newConn(db, timeout)}
}

func (r *TournamentRepository) ListByPlayer(ctx context.Context, playerID int64) ([]tournament.Tournament, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := qb.Select(tournamentSelectColumns...).From("tournaments").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("played_on DESC", "tournament_id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tournaments of player=%d: %w", playerID, err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournament.Tournament{
			ID:       row.TournamentID,
			PlayerID: row.PlayerID,
			HostClub: row.HostClub,
			Level:    row.Level,
			Date:     row.PlayedOn,
		})
	}
	return out, nil
}

func (r *TournamentRepository) Upsert(ctx context.Context, items []tournament.Tournament) error {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[[2]int64]int, len(items))
	models := make([]any, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate tournament: %w", err)
		}
		model := tournamentTableModel{
			PlayerID:     item.PlayerID,
			TournamentID: item.ID,
			HostClub:     item.HostClub,
			Level:        item.Level,
			PlayedOn:     item.Date,
		}
		key := [2]int64{item.PlayerID, item.ID}
		if idx, ok := seen[key]; ok {
			models[idx] = model
			continue
		}
		seen[key] = len(models)
		models = append(models, model)
	}

	query, args, err := qb.InsertModels("tournaments", models,
		qb.OnConflict("player_id", "tournament_id").DoUpdate("host_club", "level", "played_on"),
	)
	if err != nil {
		return fmt.Errorf("build upsert tournaments query: %w", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert tournaments: %w", err)
	}
	return nil
}

package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/badminton-stats/internal/domain/club"
	"github.com/riskibarqy/badminton-stats/internal/domain/match"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	"github.com/riskibarqy/badminton-stats/internal/domain/tournament"
	"github.com/riskibarqy/badminton-stats/internal/platform/logging"
)

// Submitter schedules background work. writebehind.Pool is the production implementation.
type Submitter interface {
	Submit(ctx context.Context, name string, fn func(context.Context) error)
}

// Persister writes gateway data back to the store without blocking the caller.
type Persister struct {
	clubs       club.Repository
	players     player.Repository
	games       match.Repository
	tournaments tournament.Repository
	submitter   Submitter
	logger      *logging.Logger
}

func NewPersister(
	clubs club.Repository,
	players player.Repository,
	games match.Repository,
	tournaments tournament.Repository,
	submitter Submitter,
	logger *logging.Logger,
) *Persister {
	if logger == nil {
		logger = logging.Default()
	}
	return &Persister{
		clubs:       clubs,
		players:     players,
		games:       games,
		tournaments: tournaments,
		submitter:   submitter,
		logger:      logger.Named("persister"),
	}
}

// PersistPlayer upserts the player's club and then the player. Players without a club are skipped.
func (p *Persister) PersistPlayer(ctx context.Context, pl player.Player) {
	if p == nil {
		return
	}
	pl = pl.Normalized()
	if pl.ClubID == 0 {
		p.logger.DebugContext(ctx, "skip persisting player without club", "player_id", pl.ID)
		return
	}

	p.submit(ctx, "upsert-player:"+strconv.FormatInt(pl.ID, 10), func(ctx context.Context) error {
		if err := p.clubs.Upsert(ctx, club.Club{ID: pl.ClubID, Name: pl.ClubName}); err != nil {
			return fmt.Errorf("upsert club=%d: %w", pl.ClubID, err)
		}
		if err := p.players.Upsert(ctx, pl); err != nil {
			return fmt.Errorf("upsert player=%d: %w", pl.ID, err)
		}
		return nil
	})
}

// PersistGame upserts a scraped game keyed by (match, category).
func (p *Persister) PersistGame(ctx context.Context, matchID int64, g match.Game) {
	if strings.TrimSpace(g.Category) == "" {
		return
	}

	p.submit(ctx, fmt.Sprintf("upsert-game:%d:%s", matchID, g.Category), func(ctx context.Context) error {
		if err := p.games.UpsertGame(ctx, matchID, g); err != nil {
			return fmt.Errorf("upsert game match=%d category=%s: %w", matchID, g.Category, err)
		}
		return nil
	})
}

// PersistTournaments upserts a player's tournaments keyed by (player, tournament).
func (p *Persister) PersistTournaments(ctx context.Context, playerID int64, items []tournament.Tournament) {
	if len(items) == 0 {
		return
	}

	rows := make([]tournament.Tournament, 0, len(items))
	for _, t := range items {
		t.PlayerID = playerID
		rows = append(rows, t)
	}

	p.submit(ctx, "upsert-tournaments:"+strconv.FormatInt(playerID, 10), func(ctx context.Context) error {
		if err := p.tournaments.Upsert(ctx, rows); err != nil {
			return fmt.Errorf("upsert tournaments player=%d: %w", playerID, err)
		}
		return nil
	})
}

func (p *Persister) submit(ctx context.Context, name string, fn func(context.Context) error) {
	if p == nil {
		return
	}
	if p.submitter == nil {
		if err := fn(context.WithoutCancel(ctx)); err != nil {
			p.logger.WarnContext(ctx, "persist failed", "task", name, "error", err)
		}
		return
	}
	p.submitter.Submit(ctx, name, fn)
}

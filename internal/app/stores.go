package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/badminton-stats/internal/config"
	"github.com/riskibarqy/badminton-stats/internal/domain/club"
	"github.com/riskibarqy/badminton-stats/internal/domain/match"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	"github.com/riskibarqy/badminton-stats/internal/domain/standing"
	"github.com/riskibarqy/badminton-stats/internal/domain/tournament"
	"github.com/riskibarqy/badminton-stats/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/badminton-stats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/badminton-stats/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/badminton-stats/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

type stores struct {
	clubs       club.Repository
	players     player.Repository
	standings   standing.Repository
	games       match.Repository
	tournaments tournament.Repository

	db *sqlx.DB
}

func openStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (stores, error) {
	var out stores

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		out = stores{
			clubs:       memory.NewClubRepository(memory.SeedClubs()),
			players:     memory.NewPlayerRepository(memory.SeedPlayers()),
			standings:   memory.NewStandingRepository(),
			games:       memory.NewGameRepository(),
			tournaments: memory.NewTournamentRepository(),
		}
	case config.StoreDriverPostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return stores{}, err
		}
		out = stores{
			clubs:       postgres.NewClubRepository(db, cfg.StoreTimeout),
			players:     postgres.NewPlayerRepository(db, cfg.StoreTimeout),
			standings:   postgres.NewStandingRepository(db, cfg.StoreTimeout),
			games:       postgres.NewGameRepository(db, cfg.StoreTimeout),
			tournaments: postgres.NewTournamentRepository(db, cfg.StoreTimeout),
			db:          db,
		}
	default:
		return stores{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	if cfg.CacheEnabled {
		out.clubs = cache.NewClubRepository(out.clubs, cfg.CacheTTL)
	}

	logger.InfoContext(ctx, "store ready", "driver", cfg.StoreDriver, "club_cache", cfg.CacheEnabled)
	return out, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	otelsql.ReportDBStatsMetrics(db.DB)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func (s stores) close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/badminton-stats/internal/platform/logging"
	"github.com/riskibarqy/badminton-stats/internal/usecase"
	"github.com/robfig/cron/v3"
)

const defaultRunTimeout = 30 * time.Minute

// ProfileBuilder rebuilds a profile, refreshing the stored standings and
// enqueueing unknown match participants for discovery as a side effect.
type ProfileBuilder interface {
	BuildProfile(ctx context.Context, playerID int64) (usecase.Profile, error)
}

// PagePurger drops expired raw pages.
type PagePurger interface {
	Purge() (int, error)
}

type Config struct {
	CronSpec   string
	PlayerIDs  []int64
	RunTimeout time.Duration
}

type RunResult struct {
	Built  int
	Failed int
	Purged int
}

// Warmup rebuilds a fixed set of profiles on a cron schedule.
type Warmup struct {
	cron     *cron.Cron
	config   Config
	profiles ProfileBuilder
	pages    PagePurger
	logger   *logging.Logger
}

// New validates the cron spec and registers the warmup job. pages may be nil.
func New(cfg Config, profiles ProfileBuilder, pages PagePurger, logger *logging.Logger) (*Warmup, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = defaultRunTimeout
	}
	logger = logger.Named("warmup")

	w := &Warmup{
		cron: cron.New(
			cron.WithLogger(cron.PrintfLogger(logger)),
			cron.WithChain(cron.Recover(cron.PrintfLogger(logger)), cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		config:   cfg,
		profiles: profiles,
		pages:    pages,
		logger:   logger,
	}
	if _, err := w.cron.AddFunc(cfg.CronSpec, w.tick); err != nil {
		return nil, fmt.Errorf("register warmup cron %q: %w", cfg.CronSpec, err)
	}
	return w, nil
}

func (w *Warmup) Start() {
	w.logger.Info("warmup scheduler starting", "cron", w.config.CronSpec, "players", len(w.config.PlayerIDs))
	w.cron.Start()
}

// Stop halts the schedule and waits for a running warmup until ctx is done.
func (w *Warmup) Stop(ctx context.Context) error {
	select {
	case <-w.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for warmup run: %w", ctx.Err())
	}
}

func (w *Warmup) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), w.config.RunTimeout)
	defer cancel()

	result := w.RunOnce(ctx)
	w.logger.InfoContext(ctx, "warmup finished",
		"built", result.Built,
		"failed", result.Failed,
		"purged_pages", result.Purged,
	)
}

// RunOnce rebuilds every configured profile in order and purges expired pages.
// A failing player is logged and skipped.
func (w *Warmup) RunOnce(ctx context.Context) RunResult {
	var result RunResult
	for _, playerID := range w.config.PlayerIDs {
		if ctx.Err() != nil {
			w.logger.WarnContext(ctx, "warmup interrupted", "remaining", len(w.config.PlayerIDs)-result.Built-result.Failed)
			break
		}
		if _, err := w.profiles.BuildProfile(ctx, playerID); err != nil {
			result.Failed++
			w.logger.WarnContext(ctx, "warmup profile failed", "player_id", playerID, "error", err)
			continue
		}
		result.Built++
	}

	if w.pages != nil {
		purged, err := w.pages.Purge()
		if err != nil {
			w.logger.WarnContext(ctx, "purge page cache failed", "error", err)
		}
		result.Purged = purged
	}
	return result
}

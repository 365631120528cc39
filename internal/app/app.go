package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/badminton-stats/external/badmintonplayer"
	"github.com/riskibarqy/badminton-stats/internal/config"
	"github.com/riskibarqy/badminton-stats/internal/discovery"
	"github.com/riskibarqy/badminton-stats/internal/infrastructure/pagecache"
	"github.com/riskibarqy/badminton-stats/internal/interfaces/httpapi"
	"github.com/riskibarqy/badminton-stats/internal/platform/logging"
	"github.com/riskibarqy/badminton-stats/internal/platform/resilience"
	"github.com/riskibarqy/badminton-stats/internal/platform/writebehind"
	"github.com/riskibarqy/badminton-stats/internal/scheduler"
	"github.com/riskibarqy/badminton-stats/internal/usecase"
)

// App owns every long-lived component. Build it with New, then Start and Shutdown.
type App struct {
	Server *http.Server

	cfg       config.Config
	logger    *logging.Logger
	stores    stores
	pages     *pagecache.BoltCache
	writes    *writebehind.Pool
	discovery *discovery.Queue
	warmup    *scheduler.Warmup

	runCancel context.CancelFunc
	runDone   chan struct{}
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{cfg: cfg, logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.closeResources()
		}
	}()

	var err error
	if a.stores, err = openStores(ctx, cfg, logger); err != nil {
		return nil, err
	}

	var pages badmintonplayer.PageCache
	if cfg.PageCacheEnabled {
		if a.pages, err = pagecache.Open(cfg.PageCachePath, cfg.PageCacheTTL); err != nil {
			return nil, fmt.Errorf("open page cache: %w", err)
		}
		pages = a.pages
	}

	gateway := badmintonplayer.NewClient(badmintonplayer.ClientConfig{
		BaseURL:        cfg.GatewayBaseURL,
		Timeout:        cfg.GatewayTimeout,
		MaxRetries:     cfg.GatewayMaxRetries,
		ContextKeyTTL:  cfg.GatewayContextKeyTTL,
		PerformanceTTL: cfg.GatewayPerformanceTTL,
		PageCache:      pages,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.GatewayCircuitEnabled,
			FailureThreshold: cfg.GatewayCircuitFailureCount,
			OpenTimeout:      cfg.GatewayCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.GatewayCircuitHalfOpenMaxReq,
		},
	})

	if a.writes, err = writebehind.New(writebehind.Config{
		Workers:    cfg.WriteBehindWorkers,
		MaxPending: cfg.WriteBehindMaxPending,
		Timeout:    cfg.StoreTimeout,
	}, logger); err != nil {
		return nil, err
	}

	persister := usecase.NewPersister(a.stores.clubs, a.stores.players, a.stores.games, a.stores.tournaments, a.writes, logger)
	searchSvc := usecase.NewPlayerSearchService(a.stores.players, gateway, persister, logger)
	attribution := usecase.NewClubAttributionService(a.stores.players, logger)
	clubSvc := usecase.NewClubService(a.stores.clubs, a.stores.players)
	lookupSvc := usecase.NewMatchLookupService(a.stores.players, searchSvc, cfg.LookupConcurrency, logger)

	// Typed nils must not leak into the interfaces below.
	var (
		discoverer usecase.MatchDiscoverer
		queue      httpapi.DiscoveryQueue
	)
	if cfg.DiscoveryEnabled {
		a.discovery = discovery.NewQueue(discovery.Config{
			Workers:           cfg.DiscoveryWorkers,
			RequestsPerSecond: cfg.DiscoveryRPS,
		}, searchSvc, logger)
		discoverer = a.discovery
		queue = a.discovery
	}

	profileSvc := usecase.NewProfileService(
		usecase.ProfileServiceConfig{
			StandingsFreshness: cfg.StandingsFreshness,
			MatchConcurrency:   cfg.LookupConcurrency,
		},
		a.stores.players,
		a.stores.standings,
		a.stores.games,
		gateway,
		attribution,
		persister,
		discoverer,
		logger,
	)

	if cfg.WarmupEnabled {
		var purger scheduler.PagePurger
		if a.pages != nil {
			purger = a.pages
		}
		if a.warmup, err = scheduler.New(scheduler.Config{
			CronSpec:  cfg.WarmupCron,
			PlayerIDs: cfg.WarmupPlayerIDs,
		}, profileSvc, purger, logger); err != nil {
			return nil, err
		}
	}

	handler := httpapi.NewHandler(searchSvc, profileSvc, clubSvc, lookupSvc, queue, logger)
	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ok = true
	return a, nil
}

// Start launches the discovery workers and the warmup schedule. The HTTP server is left to the caller.
func (a *App) Start() {
	runCtx, cancel := context.WithCancel(context.Background())
	a.runCancel = cancel
	a.runDone = make(chan struct{})

	if a.discovery == nil {
		close(a.runDone)
	} else {
		go func() {
			defer close(a.runDone)
			if err := a.discovery.Run(runCtx); err != nil {
				a.logger.Error("discovery queue stopped", "error", err)
			}
		}()
	}

	if a.warmup != nil {
		a.warmup.Start()
	}
}

// Shutdown stops intake first and storage last.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if a.warmup != nil {
		if err := a.warmup.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.discovery != nil {
		if err := a.discovery.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.runCancel != nil {
		a.runCancel()
		select {
		case <-a.runDone:
		case <-ctx.Done():
		}
	}

	errs = append(errs, a.closeResources())
	return errors.Join(errs...)
}

func (a *App) closeResources() error {
	var errs []error
	if a.writes != nil {
		if err := a.writes.Close(a.cfg.WriteBehindDrainTimeout); err != nil {
			errs = append(errs, err)
		} else {
			a.logger.Info("write-behind drained", "stats", a.writes.Stats())
		}
		a.writes = nil
	}
	if a.pages != nil {
		if err := a.pages.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close page cache: %w", err))
		}
		a.pages = nil
	}
	if err := a.stores.close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	a.stores.db = nil
	return errors.Join(errs...)
}

// Package writebehind runs fire-and-forget persistence on a bounded worker pool.
// Tasks outlive the request that submitted them; failures are logged and dropped.
package writebehind

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/badminton-stats/internal/platform/logging"
)

type Config struct {
	Workers    int
	MaxPending int
	Timeout    time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:    4,
		MaxPending: 256,
		Timeout:    10 * time.Second,
	}
}

type Stats struct {
	Submitted int64 `json:"submitted"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Dropped   int64 `json:"dropped"`
	Running   int   `json:"running"`
	Waiting   int   `json:"waiting"`
}

type Pool struct {
	pool    *ants.Pool
	timeout time.Duration
	logger  *logging.Logger

	inflight  sync.WaitGroup
	submitted atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

func New(cfg Config, logger *logging.Logger) (*Pool, error) {
	if logger == nil {
		logger = logging.Default()
	}
	defaults := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.MaxPending <= 0 {
		cfg.MaxPending = defaults.MaxPending
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	logger = logger.Named("writebehind")
	pool, err := ants.NewPool(cfg.Workers,
		ants.WithMaxBlockingTasks(cfg.MaxPending),
		ants.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create write-behind pool: %w", err)
	}

	return &Pool{
		pool:    pool,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Submit schedules fn under a context detached from ctx's cancellation but keeping its values.
// When the backlog is full or the pool is closed the task is dropped.
func (p *Pool) Submit(ctx context.Context, name string, fn func(context.Context) error) {
	if fn == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	detached := context.WithoutCancel(ctx)

	p.submitted.Add(1)
	p.inflight.Add(1)
	err := p.pool.Submit(func() {
		defer p.inflight.Done()
		p.run(detached, name, fn)
	})
	if err == nil {
		return
	}

	p.inflight.Done()
	p.dropped.Add(1)
	switch {
	case errors.Is(err, ants.ErrPoolOverload):
		p.logger.WarnContext(ctx, "write-behind backlog full, dropping task", "task", name)
	case errors.Is(err, ants.ErrPoolClosed):
		p.logger.WarnContext(ctx, "write-behind pool closed, dropping task", "task", name)
	default:
		p.logger.ErrorContext(ctx, "submit write-behind task failed", "task", name, "error", err)
	}
}

func (p *Pool) run(ctx context.Context, name string, fn func(context.Context) error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			p.failed.Add(1)
			p.logger.ErrorContext(ctx, "write-behind task panicked", "task", name, "panic", fmt.Sprint(recovered))
		}
	}()

	taskCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	if err := fn(taskCtx); err != nil {
		p.failed.Add(1)
		p.logger.WarnContext(ctx, "write-behind task failed",
			"task", name,
			"duration", time.Since(start),
			"error", err,
		)
		return
	}
	p.succeeded.Add(1)
	p.logger.DebugContext(ctx, "write-behind task done", "task", name, "duration", time.Since(start))
}

// Flush blocks until every accepted task has finished or ctx is done.
func (p *Pool) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits up to timeout for accepted ones to finish.
func (p *Pool) Close(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	flushErr := p.Flush(ctx)
	if err := p.pool.ReleaseTimeout(timeout); err != nil && flushErr == nil {
		return fmt.Errorf("release write-behind pool: %w", err)
	}
	if flushErr != nil {
		return fmt.Errorf("drain write-behind pool: %w", flushErr)
	}
	return nil
}

func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
		Dropped:   p.dropped.Load(),
		Running:   p.pool.Running(),
		Waiting:   p.pool.Waiting(),
	}
}

// Package discovery looks up players seen in scraped matches so the store learns about them.
package discovery

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/badminton-stats/internal/domain/club"
	"github.com/riskibarqy/badminton-stats/internal/domain/match"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	"github.com/riskibarqy/badminton-stats/internal/platform/id"
	"github.com/riskibarqy/badminton-stats/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"golang.org/x/time/rate"
)

var (
	ErrAlreadyQueued = errors.New("discovery job already queued")
	ErrQueueClosed   = errors.New("discovery queue closed")
)

// Searcher resolves a (name, club) pair and persists whatever it finds.
type Searcher interface {
	Search(ctx context.Context, name, club string) ([]player.Player, error)
}

type Config struct {
	Workers int
	// RequestsPerSecond is shared by all workers.
	RequestsPerSecond float64
}

func DefaultConfig() Config {
	return Config{Workers: 1, RequestsPerSecond: 0.5}
}

type Stats struct {
	Pending   int   `json:"pending"`
	Running   int   `json:"running"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
	Skipped   int64 `json:"skipped"`
	Withdrawn int64 `json:"withdrawn"`
}

type jobKey struct {
	name string
	club string
}

type job struct {
	id         string
	key        jobKey
	enqueuedAt time.Time
}

// Queue is a deduplicating FIFO drained by a fixed set of rate-limited workers.
// A (name, club) pair is held at most once across pending and running jobs.
type Queue struct {
	mu      sync.Mutex
	pending *list.List
	index   map[jobKey]*list.Element
	running map[jobKey]struct{}
	closed  bool

	signal   chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	started  atomic.Bool

	workers  int
	limiter  *rate.Limiter
	searcher Searcher
	ids      id.Generator
	logger   *logging.Logger

	processed atomic.Int64
	failed    atomic.Int64
	skipped   atomic.Int64
	withdrawn atomic.Int64
}

func NewQueue(cfg Config, searcher Searcher, logger *logging.Logger) *Queue {
	if logger == nil {
		logger = logging.Default()
	}
	defaults := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaults.RequestsPerSecond
	}

	return &Queue{
		pending:  list.New(),
		index:    make(map[jobKey]*list.Element),
		running:  make(map[jobKey]struct{}),
		signal:   make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		workers:  cfg.Workers,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		searcher: searcher,
		ids:      id.NewUUIDGenerator(),
		logger:   logger.Named("discovery"),
	}
}

func newKey(name, clubName string) jobKey {
	return jobKey{name: strings.TrimSpace(name), club: club.NameFromTeam(clubName)}
}

// Enqueue adds a lookup for name within club. The club may be a team name.
func (q *Queue) Enqueue(name, club string) error {
	key := newKey(name, club)
	if key.name == "" {
		return fmt.Errorf("discovery job name is required")
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	if _, ok := q.index[key]; ok {
		q.mu.Unlock()
		return ErrAlreadyQueued
	}
	if _, ok := q.running[key]; ok {
		q.mu.Unlock()
		return ErrAlreadyQueued
	}
	q.index[key] = q.pending.PushBack(&job{
		id:         id.MustNewID(q.ids),
		key:        key,
		enqueuedAt: time.Now(),
	})
	q.mu.Unlock()

	q.wake()
	return nil
}

// EnqueueMatch queues every player of m except the excluded names, using each side's
// team name as the club. It returns how many jobs were newly queued.
func (q *Queue) EnqueueMatch(m match.TeamMatch, exclude ...string) int {
	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[strings.TrimSpace(name)] = struct{}{}
	}

	home, away := m.Players()
	queued := 0
	for _, side := range []struct {
		names []string
		team  string
	}{{home, m.HomeTeam}, {away, m.AwayTeam}} {
		for _, name := range side.names {
			if _, ok := skip[name]; ok {
				continue
			}
			if err := q.Enqueue(name, side.team); err == nil {
				queued++
			}
		}
	}
	return queued
}

// Withdraw removes a pending job. Jobs already taken by a worker are left alone.
func (q *Queue) Withdraw(name, club string) bool {
	key := newKey(name, club)

	q.mu.Lock()
	defer q.mu.Unlock()

	elem, ok := q.index[key]
	if !ok {
		return false
	}
	q.pending.Remove(elem)
	delete(q.index, key)
	q.withdrawn.Add(1)
	return true
}

func (q *Queue) Stats() Stats {
	q.mu.Lock()
	pending, running := q.pending.Len(), len(q.running)
	q.mu.Unlock()

	return Stats{
		Pending:   pending,
		Running:   running,
		Processed: q.processed.Load(),
		Failed:    q.failed.Load(),
		Skipped:   q.skipped.Load(),
		Withdrawn: q.withdrawn.Load(),
	}
}

// Run starts the workers and blocks until ctx is cancelled or Close is called.
// It returns once every worker has finished its current job.
func (q *Queue) Run(ctx context.Context) error {
	if !q.started.CompareAndSwap(false, true) {
		return fmt.Errorf("discovery queue already running")
	}
	defer close(q.done)

	q.logger.InfoContext(ctx, "discovery workers starting", "workers", q.workers, "rps", float64(q.limiter.Limit()))

	var wg conc.WaitGroup
	for i := 0; i < q.workers; i++ {
		worker := i
		wg.Go(func() {
			q.work(ctx, worker)
		})
	}
	wg.Wait()

	q.logger.InfoContext(ctx, "discovery workers stopped", "stats", q.Stats())
	return nil
}

// Close rejects new jobs, drops pending ones and waits for running jobs until ctx is done.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	dropped := q.pending.Len()
	q.pending.Init()
	q.index = make(map[jobKey]*list.Element)
	q.mu.Unlock()

	q.stopOnce.Do(func() { close(q.stop) })
	if dropped > 0 {
		q.logger.WarnContext(ctx, "discovery queue closed with pending jobs", "dropped", dropped)
	}

	if !q.started.Load() {
		return nil
	}
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for discovery workers: %w", ctx.Err())
	}
}

func (q *Queue) work(ctx context.Context, worker int) {
	logger := q.logger.With("worker", worker)
	for {
		j, ok := q.next()
		if ok {
			q.process(ctx, logger, j)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-q.stop:
			return
		case <-q.signal:
		}
	}
}

// next pops the oldest pending job and marks it running.
func (q *Queue) next() (*job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, false
	}
	front := q.pending.Front()
	if front == nil {
		return nil, false
	}
	j := q.pending.Remove(front).(*job)
	delete(q.index, j.key)
	q.running[j.key] = struct{}{}

	if q.pending.Len() > 0 {
		q.wake()
	}
	return j, true
}

func (q *Queue) finish(key jobKey) {
	q.mu.Lock()
	delete(q.running, key)
	q.mu.Unlock()
}

func (q *Queue) wake() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *Queue) process(ctx context.Context, logger *logging.Logger, j *job) {
	defer q.finish(j.key)
	defer func() {
		if recovered := recover(); recovered != nil {
			q.failed.Add(1)
			logger.ErrorContext(ctx, "discovery job panicked", "job_id", j.id, "name", j.key.name, "panic", fmt.Sprint(recovered))
		}
	}()

	if !player.IsPresent(j.key.name) {
		q.skipped.Add(1)
		logger.DebugContext(ctx, "skip no-show discovery job", "job_id", j.id, "name", j.key.name)
		return
	}

	if err := q.limiter.Wait(ctx); err != nil {
		q.skipped.Add(1)
		logger.DebugContext(ctx, "discovery job abandoned while rate limited", "job_id", j.id, "error", err)
		return
	}

	start := time.Now()
	found, err := q.searcher.Search(ctx, j.key.name, j.key.club)
	if err != nil {
		q.failed.Add(1)
		logger.WarnContext(ctx, "discovery job failed",
			"job_id", j.id,
			"name", j.key.name,
			"club", j.key.club,
			"error", err,
		)
		return
	}

	q.processed.Add(1)
	logger.InfoContext(ctx, "discovered player",
		"job_id", j.id,
		"name", j.key.name,
		"club", j.key.club,
		"candidates", len(found),
		"waited", start.Sub(j.enqueuedAt),
		"duration", time.Since(start),
	)
}

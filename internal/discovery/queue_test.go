package discovery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/badminton-stats/internal/domain/match"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	"github.com/riskibarqy/badminton-stats/internal/platform/logging"
)

type searchCall struct {
	name string
	club string
	at   time.Time
}

type recordingSearcher struct {
	mu    sync.Mutex
	calls []searchCall
	fn    func(ctx context.Context, name, club string) ([]player.Player, error)
	done  chan struct{}
}

func newRecordingSearcher(buffer int) *recordingSearcher {
	return &recordingSearcher{done: make(chan struct{}, buffer)}
}

func (s *recordingSearcher) Search(ctx context.Context, name, club string) ([]player.Player, error) {
	s.mu.Lock()
	s.calls = append(s.calls, searchCall{name: name, club: club, at: time.Now()})
	fn := s.fn
	s.mu.Unlock()

	defer func() {
		select {
		case s.done <- struct{}{}:
		default:
		}
	}()
	if fn != nil {
		return fn(ctx, name, club)
	}
	return []player.Player{{ID: 1, Name: name}}, nil
}

func (s *recordingSearcher) snapshot() []searchCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]searchCall(nil), s.calls...)
}

func (s *recordingSearcher) wait(t *testing.T, n int) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case <-s.done:
		case <-deadline:
			t.Fatalf("timed out waiting for search %d of %d", i+1, n)
		}
	}
}

func startQueue(t *testing.T, q *Queue) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- q.Run(ctx) }()
	t.Cleanup(func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := q.Close(closeCtx); err != nil {
			t.Errorf("close queue: %v", err)
		}
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("run queue: %v", err)
		}
	})
}

func waitForStats(t *testing.T, q *Queue, ok func(Stats) bool) Stats {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		stats := q.Stats()
		if ok(stats) {
			return stats
		}
		if time.Now().After(deadline) {
			t.Fatalf("stats never reached expected state: %+v", stats)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestQueue_EnqueueRejectsDuplicates(t *testing.T) {
	t.Parallel()

	q := NewQueue(Config{Workers: 1, RequestsPerSecond: 100}, newRecordingSearcher(1), logging.NewNop())

	if err := q.Enqueue("Anders Jensen", "Vejlby IK 2"); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if err := q.Enqueue("Anders Jensen", "Vejlby IK"); !errors.Is(err, ErrAlreadyQueued) {
		t.Fatalf("expected ErrAlreadyQueued for the same pair, got %v", err)
	}
	if err := q.Enqueue("Anders Jensen", "Højbjerg"); err != nil {
		t.Fatalf("same name in another club should queue: %v", err)
	}
	if got := q.Stats().Pending; got != 2 {
		t.Fatalf("expected 2 pending jobs, got %d", got)
	}
	if err := q.Enqueue("  ", "Vejlby IK"); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestQueue_WithdrawRemovesPendingJob(t *testing.T) {
	t.Parallel()

	q := NewQueue(Config{Workers: 1, RequestsPerSecond: 100}, newRecordingSearcher(1), logging.NewNop())
	if err := q.Enqueue("Mette Holm", "Skovbakken 3"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if !q.Withdraw("Mette Holm", "Skovbakken") {
		t.Fatalf("expected pending job to be withdrawn")
	}
	if q.Withdraw("Mette Holm", "Skovbakken") {
		t.Fatalf("second withdraw should report nothing removed")
	}

	stats := q.Stats()
	if stats.Pending != 0 || stats.Withdrawn != 1 {
		t.Fatalf("unexpected stats after withdraw: %+v", stats)
	}
	if err := q.Enqueue("Mette Holm", "Skovbakken"); err != nil {
		t.Fatalf("withdrawn pair should be queueable again: %v", err)
	}
}

func TestQueue_EnqueueMatchCleansTeamsAndExcludesSubject(t *testing.T) {
	t.Parallel()

	q := NewQueue(Config{Workers: 1, RequestsPerSecond: 100}, newRecordingSearcher(1), logging.NewNop())
	m := match.TeamMatch{
		HomeTeam: "Vejlby IK 2",
		AwayTeam: "Højbjerg 1",
		Games: []match.Game{
			{Category: "1. HS", HomePlayer1: "Anders Jensen", AwayPlayer1: "Jonas Berg"},
			{Category: "1. HD", HomePlayer1: "Anders Jensen", HomePlayer2: "Peter Lund", AwayPlayer1: "Jonas Berg", AwayPlayer2: player.NoShowMarker},
		},
	}

	if got := q.EnqueueMatch(m, "Anders Jensen"); got != 2 {
		t.Fatalf("expected 2 queued jobs, got %d", got)
	}
	if got := q.EnqueueMatch(m, "Anders Jensen"); got != 0 {
		t.Fatalf("re-enqueueing the same match should queue nothing, got %d", got)
	}
	if !q.Withdraw("Peter Lund", "Vejlby IK") {
		t.Fatalf("expected Peter Lund queued under cleaned home team")
	}
	if !q.Withdraw("Jonas Berg", "Højbjerg") {
		t.Fatalf("expected Jonas Berg queued under cleaned away team")
	}
}

func TestQueue_RunProcessesJobsInOrder(t *testing.T) {
	t.Parallel()

	searcher := newRecordingSearcher(3)
	q := NewQueue(Config{Workers: 1, RequestsPerSecond: 1000}, searcher, logging.NewNop())
	for _, name := range []string{"A One", "B Two", "C Three"} {
		if err := q.Enqueue(name, "Vejlby IK"); err != nil {
			t.Fatalf("enqueue %s: %v", name, err)
		}
	}

	startQueue(t, q)
	searcher.wait(t, 3)
	waitForStats(t, q, func(s Stats) bool { return s.Processed == 3 && s.Running == 0 })

	calls := searcher.snapshot()
	for i, want := range []string{"A One", "B Two", "C Three"} {
		if calls[i].name != want || calls[i].club != "Vejlby IK" {
			t.Fatalf("call %d = %+v, want %s", i, calls[i], want)
		}
	}
}

func TestQueue_RateLimitIsSharedAcrossWorkers(t *testing.T) {
	t.Parallel()

	const (
		jobs = 5
		rps  = 20.0
	)
	searcher := newRecordingSearcher(jobs)
	q := NewQueue(Config{Workers: 3, RequestsPerSecond: rps}, searcher, logging.NewNop())
	for i := 0; i < jobs; i++ {
		if err := q.Enqueue(string(rune('A'+i))+" Player", "Vejlby IK"); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	startQueue(t, q)
	searcher.wait(t, jobs)

	calls := searcher.snapshot()
	first, last := calls[0].at, calls[0].at
	for _, c := range calls[1:] {
		if c.at.Before(first) {
			first = c.at
		}
		if c.at.After(last) {
			last = c.at
		}
	}
	minSpan := time.Duration(float64(jobs-1) / rps * float64(time.Second))
	// Allow for the gap between the limiter releasing a worker and the call being recorded.
	if span := last.Sub(first); span < minSpan-10*time.Millisecond {
		t.Fatalf("expected %d calls to span at least %s, got %s", jobs, minSpan, span)
	}
}

func TestQueue_SkipsNoShowWithoutSearching(t *testing.T) {
	t.Parallel()

	searcher := newRecordingSearcher(1)
	q := NewQueue(Config{Workers: 1, RequestsPerSecond: 1000}, searcher, logging.NewNop())
	if err := q.Enqueue(player.NoShowMarker, "Vejlby IK"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := q.Enqueue("Anders Jensen", "Vejlby IK"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	startQueue(t, q)
	searcher.wait(t, 1)
	stats := waitForStats(t, q, func(s Stats) bool { return s.Processed+s.Skipped == 2 })

	if stats.Skipped != 1 {
		t.Fatalf("expected 1 skipped job, got %+v", stats)
	}
	for _, c := range searcher.snapshot() {
		if c.name == player.NoShowMarker {
			t.Fatalf("no-show marker must not reach the searcher")
		}
	}
}

func TestQueue_FailuresAndPanicsDoNotStopWorkers(t *testing.T) {
	t.Parallel()

	searcher := newRecordingSearcher(3)
	searcher.fn = func(_ context.Context, name, _ string) ([]player.Player, error) {
		switch name {
		case "Fail Player":
			return nil, errors.New("upstream down")
		case "Panic Player":
			panic("parser exploded")
		}
		return nil, nil
	}
	q := NewQueue(Config{Workers: 1, RequestsPerSecond: 1000}, searcher, logging.NewNop())
	for _, name := range []string{"Fail Player", "Panic Player", "Good Player"} {
		if err := q.Enqueue(name, "Vejlby IK"); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	startQueue(t, q)
	searcher.wait(t, 3)
	stats := waitForStats(t, q, func(s Stats) bool { return s.Processed+s.Failed == 3 && s.Running == 0 })

	if stats.Failed != 2 || stats.Processed != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestQueue_RunningJobBlocksDuplicateUntilDone(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	searcher := newRecordingSearcher(1)
	searcher.fn = func(ctx context.Context, _, _ string) ([]player.Player, error) {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil, nil
	}
	q := NewQueue(Config{Workers: 1, RequestsPerSecond: 1000}, searcher, logging.NewNop())
	if err := q.Enqueue("Anders Jensen", "Vejlby IK"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	startQueue(t, q)
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatalf("job never started")
	}

	if err := q.Enqueue("Anders Jensen", "Vejlby IK"); !errors.Is(err, ErrAlreadyQueued) {
		t.Fatalf("expected ErrAlreadyQueued while running, got %v", err)
	}
	if q.Withdraw("Anders Jensen", "Vejlby IK") {
		t.Fatalf("running job must not be withdrawable")
	}

	close(release)
	searcher.wait(t, 1)
	waitForStats(t, q, func(s Stats) bool { return s.Running == 0 })

	if err := q.Enqueue("Anders Jensen", "Vejlby IK"); err != nil {
		t.Fatalf("finished pair should be queueable again: %v", err)
	}
}

func TestQueue_CloseRejectsNewJobs(t *testing.T) {
	t.Parallel()

	q := NewQueue(Config{}, newRecordingSearcher(1), logging.NewNop())
	if err := q.Enqueue("Anders Jensen", "Vejlby IK"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := q.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := q.Enqueue("Mette Holm", "Vejlby IK"); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
	if got := q.Stats().Pending; got != 0 {
		t.Fatalf("close should drop pending jobs, got %d", got)
	}
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/badminton-stats/internal/domain/match"
)

func TestIsNotFound(t *testing.T) {
	t.Run("matches wrapped no rows", func(t *testing.T) {
		if !isNotFound(fmt.Errorf("select player: %w", sql.ErrNoRows)) {
			t.Fatalf("expected true for wrapped sql.ErrNoRows")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isNotFound(fakeErr("pq: relation players does not exist")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestSetsRoundTripThroughJSONB(t *testing.T) {
	raw, err := encodeSets([]match.Set{{Number: 1, HomePoints: 21, AwayPoints: 15}, {Number: 2, HomePoints: 18, AwayPoints: 21}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if raw != `[{"n":1,"home":21,"away":15},{"n":2,"home":18,"away":21}]` {
		t.Fatalf("unexpected json: %s", raw)
	}

	got, err := decodeSets(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[1].AwayPoints != 21 {
		t.Fatalf("unexpected sets: %+v", got)
	}

	for _, empty := range []string{"", "null", " "} {
		got, err := decodeSets(empty)
		if err != nil || got != nil {
			t.Fatalf("decodeSets(%q) = %+v, %v", empty, got, err)
		}
	}

	if _, err := decodeSets("{"); err == nil {
		t.Fatalf("expected error for malformed json")
	}
}

func TestNullableConversions(t *testing.T) {
	if nullInt64(0).Valid {
		t.Fatalf("zero club id must be stored as NULL")
	}
	if got := intPtrFromNull(nullIntPtr(nil)); got != nil {
		t.Fatalf("expected nil, got %v", *got)
	}
	seven := 7
	if got := intPtrFromNull(nullIntPtr(&seven)); got == nil || *got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}

	when := time.Date(1994, 3, 14, 0, 0, 0, 0, time.UTC)
	if got := timePtrFromNull(nullTime(&when)); got == nil || !got.Equal(when) {
		t.Fatalf("unexpected time round trip: %v", got)
	}
	if timePtrFromNull(nullTime(nil)) != nil {
		t.Fatalf("expected nil time")
	}
}

func TestConnTimeoutDefaults(t *testing.T) {
	c := newConn(nil, 0)
	if c.timeout != DefaultTimeout {
		t.Fatalf("expected default timeout, got %s", c.timeout)
	}

	ctx, cancel := newConn(nil, time.Minute).withTimeout(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok || time.Until(deadline) > time.Minute {
		t.Fatalf("expected deadline within a minute, got %v ok=%v", deadline, ok)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

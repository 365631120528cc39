package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/badminton-stats/internal/domain/match"
)

// DefaultTimeout bounds a single store call when the caller passes zero.
const DefaultTimeout = 10 * time.Second

var setsJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// conn carries the handle and per-call deadline shared by every repository.
type conn struct {
	db      *sqlx.DB
	timeout time.Duration
}

func newConn(db *sqlx.DB, timeout time.Duration) conn {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return conn{db: db, timeout: timeout}
}

func (c conn) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func nullIntPtr(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtrFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func timePtrFromNull(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	out := v.Time
	return &out
}

type setJSON struct {
	Number int `json:"n"`
	Home   int `json:"home"`
	Away   int `json:"away"`
}

func encodeSets(sets []match.Set) (string, error) {
	rows := make([]setJSON, 0, len(sets))
	for _, s := range sets {
		rows = append(rows, setJSON{Number: s.Number, Home: s.HomePoints, Away: s.AwayPoints})
	}
	return setsJSON.MarshalToString(rows)
}

func decodeSets(raw string) ([]match.Set, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var rows []setJSON
	if err := setsJSON.UnmarshalFromString(raw, &rows); err != nil {
		return nil, err
	}
	out := make([]match.Set, 0, len(rows))
	for _, r := range rows {
		out = append(out, match.Set{Number: r.Number, HomePoints: r.Home, AwayPoints: r.Away})
	}
	return out, nil
}

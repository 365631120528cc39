package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/badminton-stats/internal/domain/club"
	qb "github.com/riskibarqy/badminton-stats/internal/platform/querybuilder"
)

type ClubRepository struct {
	conn
}

var clubSelectColumns = qb.Columns(clubTableModel{})

func NewClubRepository(db *sqlx.DB, timeout time.Duration) *ClubRepository {
	return &ClubRepository{conn: newConn(db, timeout)}
}

func (r *ClubRepository) GetByID(ctx context.Context, id int64) (club.Club, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := qb.Select(clubSelectColumns...).From("clubs").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return club.Club{}, false, fmt.Errorf("build select club by id query: %w", err)
	}

	var row clubTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("select club by id: %w", err)
	}

	return club.Club{ID: row.ID, Name: strings.TrimSpace(row.Name)}, true, nil
}

func (r *ClubRepository) Search(ctx context.Context, tsquery string, limit int) ([]club.Club, error) {
	if strings.TrimSpace(tsquery) == "" {
		return []club.Club{}, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := qb.Select(clubSelectColumns...).From("clubs").
		Where(qb.TextSearch("name_tsv", tsquery)).
		OrderBy("name", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build search clubs query: %w", err)
	}

	var rows []clubTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("search clubs: %w", err)
	}

	out := make([]club.Club, 0, len(rows))
	for _, row := range rows {
		out = append(out, club.Club{ID: row.ID, Name: strings.TrimSpace(row.Name)})
	}
	return out, nil
}

func (r *ClubRepository) Upsert(ctx context.Context, c club.Club) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate club: %w", err)
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := qb.InsertModel("clubs", clubTableModel{ID: c.ID, Name: c.Name},
		qb.OnConflict("id").DoUpdate("name").Set("updated_at = NOW()"),
	)
	if err != nil {
		return fmt.Errorf("build upsert club query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert club id=%d: %w", c.ID, err)
	}
	return nil
}

package querybuilder

import (
	"strings"
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	since := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	query, args, err := Select("bp_player_id", "category", "points").
		From("standings").
		Where(Eq("bp_player_id", int64(76749)), Gte("updated_at", since)).
		OrderBy("category DESC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT bp_player_id, category, points FROM standings WHERE bp_player_id = $1 AND updated_at >= $2 ORDER BY category DESC LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(76749) || args[1] != since {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_TextSearchAndIn(t *testing.T) {
	query, args, err := Select("bp_id", "name").
		From("players").
		Where(TextSearch("name_tsv", "anders | jensen"), In("club_id", []int64{1, 2}), IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT bp_id, name FROM players WHERE name_tsv @@ to_tsquery('simple', $1) AND club_id IN ($2, $3) AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "anders | jensen" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("bp_id").From("players").Where(In[string]("name", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if !strings.HasSuffix(query, "WHERE 1=0") || len(args) != 0 {
		t.Fatalf("unexpected query %q args %+v", query, args)
	}
}

func TestInsertBuilder_OnConflictDoUpdate(t *testing.T) {
	query, args, err := InsertInto("clubs").
		Columns("bp_id", "name").
		Values(int64(1666), "Vejlby IK").
		OnConflict(OnConflict("bp_id").DoUpdate("name").Set("updated_at = NOW()")).
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO clubs (bp_id, name) VALUES ($1, $2) ON CONFLICT (bp_id) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(1666) || args[1] != "Vejlby IK" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_OnConflictDoNothing(t *testing.T) {
	query, _, err := InsertInto("clubs").
		Columns("bp_id").
		Values(int64(1)).
		OnConflict(OnConflict("bp_id")).
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}
	if !strings.HasSuffix(query, "ON CONFLICT (bp_id) DO NOTHING") {
		t.Fatalf("unexpected query %q", query)
	}
}

type standingRow struct {
	PlayerID int64  `db:"bp_player_id"`
	Category string `db:"category"`
	Points   *int   `db:"points"`
	internal string
}

func TestInsertModels_MultiRow(t *testing.T) {
	points := 1450
	query, args, err := InsertModels("standings", []any{
		standingRow{PlayerID: 1, Category: "HS", Points: &points},
		&standingRow{PlayerID: 1, Category: "MD"},
	}, OnConflict("bp_player_id", "category").DoUpdate("points"))
	if err != nil {
		t.Fatalf("build insert models: %v", err)
	}

	wantQuery := "INSERT INTO standings (bp_player_id, category, points) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT (bp_player_id, category) DO UPDATE SET points = EXCLUDED.points"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestColumns(t *testing.T) {
	cols := Columns(standingRow{})
	if strings.Join(cols, ",") != "bp_player_id,category,points" {
		t.Fatalf("unexpected columns %v", cols)
	}
}

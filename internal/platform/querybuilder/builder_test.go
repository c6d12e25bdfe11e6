package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "external_id", "state").
		From("matches").
		Where(Eq("record_status", "active"), IsNull("deleted_at")).
		OrderBy("kickoff_at").
		Limit(50).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, external_id, state FROM matches WHERE record_status = $1 AND deleted_at IS NULL ORDER BY kickoff_at LIMIT 50"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "active" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderRangeConditions(t *testing.T) {
	query, args, err := Select("external_id").
		From("matches").
		Where(Gte("kickoff_at", "2026-08-01"), Lt("kickoff_at", "2026-08-02")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT external_id FROM matches WHERE kickoff_at >= $1 AND kickoff_at < $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderGroupBy(t *testing.T) {
	query, _, err := Select("state", "COUNT(*) AS total").
		From("matches").
		Where(Eq("record_status", "active")).
		GroupBy("state").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT state, COUNT(*) AS total FROM matches WHERE record_status = $1 GROUP BY state"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
}

func TestSelectBuilderExprPlaceholders(t *testing.T) {
	query, args, err := Select("external_id").
		From("matches").
		Where(Eq("record_status", "active"), Expr("(stats IS NULL OR state = ?)", "inplay")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT external_id FROM matches WHERE record_status = $1 AND (stats IS NULL OR state = $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("expected expr arg appended, got %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("matches").
		Columns("external_id", "state").
		Values("ev-1", "scheduled").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO matches (external_id, state) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderRowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("matches").
		Columns("external_id", "state").
		Values("ev-1").
		ToSQL()
	if err == nil {
		t.Fatal("expected row width mismatch error")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ExternalID string `db:"external_id"`
		State      string `db:"state"`
		Skipped    string `db:"-"`
		Untagged   string
	}

	query, args, err := InsertModel("matches", row{ExternalID: "ev-1", State: "scheduled", Skipped: "x"}, "RETURNING id")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO matches (external_id, state) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "ev-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("matches").
		Set("state", "finished").
		SetExpr("updated_at", "NOW()").
		Where(Eq("external_id", "ev-1")).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET state = $1, updated_at = NOW() WHERE external_id = $2 RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInConditionEmptyValues(t *testing.T) {
	query, args, err := Select("id").
		From("matches").
		Where(In("external_id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM matches WHERE 1=0"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("teams").
		Where(Eq("country_id", "c1"), Expr("(home_team_id = ? OR away_team_id = ?)", "t1", "t1")).
		OrderBy("id").
		Limit(10).
		Offset(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM teams WHERE country_id = $1 AND (home_team_id = $2 OR away_team_id = $3) ORDER BY id LIMIT 10 OFFSET 20"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "c1" || args[2] != "t1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectInEmptyMatchesNothing(t *testing.T) {
	query, args, err := Count("matches").Where(In("status_id", nil), Gte("match_time", int64(5))).ToSQL()
	if err != nil {
		t.Fatalf("build count query: %v", err)
	}
	wantQuery := "SELECT COUNT(*) FROM matches WHERE 1=0 AND match_time >= $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpsertModel(t *testing.T) {
	type row struct {
		ID       string `db:"id"`
		Name     string `db:"name"`
		internal string
		Skip     string `db:"-"`
	}

	query, args, err := UpsertModel("venues", row{ID: "v1", Name: "Anfield", internal: "x"}, "id", "(xmax = 0) AS inserted")
	if err != nil {
		t.Fatalf("build upsert query: %v", err)
	}

	wantQuery := "INSERT INTO venues (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name RETURNING (xmax = 0) AS inserted"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "v1" || args[1] != "Anfield" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("referees").ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM referees" || len(args) != 0 {
		t.Fatalf("unexpected delete: %s %+v", query, args)
	}
}

package db

import (
	"context"
	"testing"
)

func TestRebindPostgres(t *testing.T) {
	got := Postgres.Rebind("SELECT * FROM t WHERE a = ? AND b = ?")
	want := "SELECT * FROM t WHERE a = $1 AND b = $2"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRebindSQLiteUnchanged(t *testing.T) {
	q := "DELETE FROM t WHERE id = ?"
	if got := SQLite.Rebind(q); got != q {
		t.Fatalf("expected query unchanged, got %q", got)
	}
}

func TestDialectFor(t *testing.T) {
	if DialectFor("sqlite") != SQLite {
		t.Fatalf("expected sqlite dialect")
	}
	if DialectFor("pgx") != Postgres || DialectFor("") != Postgres {
		t.Fatalf("expected postgres dialect by default")
	}
}

func TestMigrateSQLiteIsIdempotent(t *testing.T) {
	conn, err := Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, conn, SQLite); err != nil {
			t.Fatalf("migrate pass %d: %v", i+1, err)
		}
	}

	var count int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM charging_sessions`).Scan(&count); err != nil {
		t.Fatalf("query sessions table: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty table, got %d rows", count)
	}
}

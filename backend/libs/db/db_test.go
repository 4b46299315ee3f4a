package db

import "testing"

func TestOpenRejectsEmptyDSN(t *testing.T) {
	if _, err := Open(DriverPostgres, "  "); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "whatever"); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestOpenSQLiteMemory(t *testing.T) {
	conn, err := Open(DriverSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()

	var one int
	if err := conn.QueryRow("SELECT 1").Scan(&one); err != nil {
		t.Fatalf("select: %v", err)
	}
	if one != 1 {
		t.Fatalf("expected 1, got %d", one)
	}
	if got := conn.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("expected single connection pool, got %d", got)
	}
}

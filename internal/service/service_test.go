package service

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/dukerupert/memoboard/internal/database"
)

func setupServiceDB(t *testing.T) (*sql.DB, *slog.Logger) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, slog.New(slog.NewTextHandler(io.Discard, nil))
}

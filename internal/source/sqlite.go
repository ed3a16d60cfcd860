package source

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"

	"cert-roster/internal/roster"
)

// SQLiteSource reads the roster tables straight from the application database.
type SQLiteSource struct {
	Path string
}

func (s *SQLiteSource) Name() string { return "sqlite:" + s.Path }

func (s *SQLiteSource) Load(ctx context.Context) (*roster.Snapshot, error) {
	dsn := "file:" + (&url.URL{Path: s.Path}).EscapedPath() + "?mode=ro&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("source: open sqlite %s: %w", s.Path, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("source: open sqlite %s: %w", s.Path, err)
	}

	snap, err := roster.LoadSQL(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", s.Path, err)
	}
	return snap, nil
}

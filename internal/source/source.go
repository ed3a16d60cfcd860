package source

import (
	"context"
	"fmt"
	"strings"

	"cert-roster/internal/config"
	"cert-roster/internal/roster"
)

// RosterSource supplies a consistent snapshot of the personnel store.
type RosterSource interface {
	Name() string
	Load(ctx context.Context) (*roster.Snapshot, error)
}

// New picks the source named by cfg.RosterSource.
func New(cfg config.Config) (RosterSource, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.RosterSource)) {
	case config.SourceFile, "":
		return &FileSource{Path: cfg.RosterPath}, nil
	case config.SourceHTTP:
		if strings.TrimSpace(cfg.RosterURL) == "" {
			return nil, fmt.Errorf("source: missing env ROSTER_URL")
		}
		return NewHTTPSource(cfg.RosterURL, cfg.RosterToken), nil
	case config.SourceSQLite:
		return &SQLiteSource{Path: cfg.RosterDB}, nil
	}
	return nil, fmt.Errorf("source: unknown roster source %q", cfg.RosterSource)
}

// FileSource reads a JSON or YAML snapshot, optionally brotli-compressed.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "file:" + s.Path }

func (s *FileSource) Load(ctx context.Context) (*roster.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return roster.LoadFile(s.Path)
}

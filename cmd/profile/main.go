// Command profile prints one person's qualification profile.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"cert-roster/internal/config"
	"cert-roster/internal/logging"
	"cert-roster/internal/report"
	"cert-roster/internal/source"
)

func main() {
	personID := flag.String("person", "", "person id to show")
	flag.Parse()

	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, os.Stdout, cfg, *personID); err != nil {
		logger.Fatal("profile failed", zap.String("person_id", *personID), zap.Error(err))
	}
}

func run(ctx context.Context, w io.Writer, cfg config.Config, personID string) error {
	if personID == "" {
		return errors.New("missing -person")
	}
	src, err := source.New(cfg)
	if err != nil {
		return err
	}
	snap, err := src.Load(ctx)
	if err != nil {
		return err
	}
	idx, err := snap.Index()
	if err != nil {
		return err
	}
	p, err := report.BuildProfile(idx, personID)
	if err != nil {
		return err
	}
	return report.WriteProfile(w, p)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/aperdana/networth/internal/config"
	"github.com/aperdana/networth/internal/observability"
)

// Standalone scheduled process: dumps the database on an interval and
// prunes old dumps. Runs beside the API, never inside it.
func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	if err := os.MkdirAll(cfg.BackupDir, 0o750); err != nil {
		log.Error("create backup dir failed", "dir", cfg.BackupDir, "err", err)
		os.Exit(1)
	}

	log.Info("backup worker started", "dir", cfg.BackupDir, "interval", cfg.BackupInterval.String(), "keep", cfg.BackupKeep)

	// one dump at startup, then on the interval

	runOnce(ctx, cfg, log)

	ticker := time.NewTicker(cfg.BackupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("backup worker shutdown complete")
			return

		case <-ticker.C:
			runOnce(ctx, cfg, log)
		}
	}
}

func runOnce(ctx context.Context, cfg config.Config, log *slog.Logger) {
	start := time.Now()

	file := filepath.Join(cfg.BackupDir, fmt.Sprintf("networth-%s.sql", start.UTC().Format("20060102-150405")))

	dumpCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	cmd := exec.CommandContext(dumpCtx, "pg_dump", "--dbname="+cfg.DBURL, "--file="+file)

	out, err := cmd.CombinedOutput()

	if err != nil {
		log.Error("pg_dump failed", "err", err, "output", strings.TrimSpace(string(out)))
		return
	}

	log.Info("backup written", "file", file, "took_ms", time.Since(start).Milliseconds())

	if err := prune(cfg.BackupDir, cfg.BackupKeep); err != nil {
		log.Error("backup prune failed", "err", err)
	}
}

// prune keeps the newest n dumps and removes the rest.
func prune(dir string, keep int) error {
	if keep <= 0 {
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, "networth-*.sql"))

	if err != nil {
		return err
	}

	if len(matches) <= keep {
		return nil
	}

	// timestamped names sort chronologically
	sort.Strings(matches)

	for _, old := range matches[:len(matches)-keep] {
		if err := os.Remove(old); err != nil {
			return err
		}
	}

	return nil
}

package jobs

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vellum-suite/vellum/internal/platform/storage"
)

const defaultSweepMinAge = 24 * time.Hour

// Sweeper removes upload files no database record references anymore. Brand
// logo replacements and failed deletes leave orphans behind; the sweep is
// the backstop that cleanup-on-request only attempts best-effort.
type Sweeper struct {
	logger *slog.Logger
	pool   *pgxpool.Pool
	disk   *storage.Disk
}

// NewSweeper constructs a Sweeper.
func NewSweeper(logger *slog.Logger, pool *pgxpool.Pool, disk *storage.Disk) *Sweeper {
	return &Sweeper{logger: logger, pool: pool, disk: disk}
}

// HandleStorageSweepTask processes TaskTypeStorageSweep tasks.
func (s *Sweeper) HandleStorageSweepTask(ctx context.Context, t *asynq.Task) error {
	var payload StorageSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	minAge := defaultSweepMinAge
	if payload.MinAgeHours > 0 {
		minAge = time.Duration(payload.MinAgeHours) * time.Hour
	}

	referenced, err := s.referencedPaths(ctx)
	if err != nil {
		return err
	}

	removed, err := s.sweep(ctx, referenced, time.Now().Add(-minAge))
	if err != nil {
		return err
	}

	s.logger.Info("storage sweep finished",
		slog.Int("referenced", len(referenced)),
		slog.Int("removed", removed))
	return nil
}

// sweep deletes unreferenced files last modified before cutoff.
func (s *Sweeper) sweep(ctx context.Context, referenced map[string]struct{}, cutoff time.Time) (int, error) {
	removed := 0
	for _, dir := range []string{"brands", "logos"} {
		err := s.disk.Walk(dir, func(rel string, info fs.FileInfo) error {
			if _, ok := referenced[rel]; ok {
				return nil
			}
			if info.ModTime().After(cutoff) {
				return nil
			}
			if err := s.disk.Delete(ctx, rel); err != nil {
				s.logger.Warn("sweep delete failed", slog.String("path", rel), slog.Any("error", err))
				return nil
			}
			removed++
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	return removed, nil
}

// referencedPaths collects every stored path a live record still points at.
func (s *Sweeper) referencedPaths(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT logo_path FROM brands WHERE logo_path IS NOT NULL
		UNION ALL
		SELECT file_path FROM company_logos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths[p] = struct{}{}
	}
	return paths, rows.Err()
}

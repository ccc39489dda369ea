package jobs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vellum-suite/vellum/internal/platform/storage"
)

func newTestSweeper(t *testing.T) (*Sweeper, *storage.Disk) {
	t.Helper()
	disk, err := storage.NewDisk(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Sweeper{logger: logger, disk: disk}, disk
}

func storeAged(t *testing.T, disk *storage.Disk, dir, name string, age time.Duration) string {
	t.Helper()
	ctx := context.Background()
	rel, err := disk.Store(ctx, dir, name, strings.NewReader("img"))
	require.NoError(t, err)
	abs := filepath.Join(disk.Root(), filepath.FromSlash(rel))
	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(abs, stamp, stamp))
	return rel
}

func TestSweepKeepsReferencedFiles(t *testing.T) {
	ctx := context.Background()
	sweeper, disk := newTestSweeper(t)

	kept := storeAged(t, disk, "brands/company_1", "logo.png", 48*time.Hour)
	orphan := storeAged(t, disk, "logos/company_1", "old.png", 48*time.Hour)

	removed, err := sweeper.sweep(ctx, map[string]struct{}{kept: {}}, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = disk.Stat(kept)
	require.NoError(t, err)
	_, err = disk.Stat(orphan)
	require.Error(t, err)
}

func TestSweepSkipsRecentOrphans(t *testing.T) {
	ctx := context.Background()
	sweeper, disk := newTestSweeper(t)

	recent := storeAged(t, disk, "logos/company_1", "fresh.png", time.Hour)

	removed, err := sweeper.sweep(ctx, map[string]struct{}{}, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Zero(t, removed)

	_, err = disk.Stat(recent)
	require.NoError(t, err)
}

func TestSweepHandlesMissingDirectories(t *testing.T) {
	ctx := context.Background()
	sweeper, _ := newTestSweeper(t)

	removed, err := sweeper.sweep(ctx, map[string]struct{}{}, time.Now())
	require.NoError(t, err)
	require.Zero(t, removed)
}

package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreAndStat(t *testing.T) {
	disk, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	rel, err := disk.Store(context.Background(), "logos/company_1", "a.png", strings.NewReader("data"))
	require.NoError(t, err)
	require.Equal(t, "logos/company_1/a.png", rel)

	info, err := disk.Stat(rel)
	require.NoError(t, err)
	require.EqualValues(t, 4, info.Size())
}

func TestAbsRefusesEscape(t *testing.T) {
	disk, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	for _, rel := range []string{"../outside.txt", "logos/../../etc/passwd"} {
		abs, err := disk.Abs(rel)
		if err != nil {
			require.ErrorIs(t, err, ErrEscapesRoot)
			continue
		}
		require.True(t, strings.HasPrefix(abs, disk.Root()), "resolved %q outside root", rel)
	}
}

func TestDeleteMissingIsNoError(t *testing.T) {
	disk, err := NewDisk(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, disk.Delete(context.Background(), "logos/absent.png"))
}

func TestWalkVisitsFilesOnly(t *testing.T) {
	root := t.TempDir()
	disk, err := NewDisk(root)
	require.NoError(t, err)

	_, err = disk.Store(context.Background(), "brands/company_1", "a.png", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = disk.Store(context.Background(), "brands/company_2", "b.png", strings.NewReader("y"))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "brands", "empty"), 0o755))

	var seen []string
	err = disk.Walk("brands", func(rel string, info fs.FileInfo) error {
		seen = append(seen, rel)
		return nil
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"brands/company_1/a.png", "brands/company_2/b.png"}, seen)
}

func TestWalkMissingDirIsEmpty(t *testing.T) {
	disk, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	err = disk.Walk("logos", func(rel string, info fs.FileInfo) error {
		t.Fatalf("unexpected file %s", rel)
		return nil
	})
	require.NoError(t, err)
}

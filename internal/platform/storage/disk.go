// Package storage implements the public disk backing uploaded files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrEscapesRoot is returned when a stored path would resolve outside the
// disk root.
var ErrEscapesRoot = errors.New("storage: path escapes disk root")

// Disk is a file store rooted at a public directory. Paths handed out and
// accepted are relative, slash separated, and always resolve inside the root.
type Disk struct {
	root string
}

// NewDisk prepares a disk store rooted at dir, creating it when absent.
func NewDisk(dir string) (*Disk, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &Disk{root: abs}, nil
}

// Root returns the absolute root directory.
func (d *Disk) Root() string {
	return d.root
}

// Store writes the upload under dir/name and returns the relative path.
func (d *Disk) Store(ctx context.Context, dir, name string, r io.Reader) (string, error) {
	rel := path.Join(dir, name)
	abs, err := d.Abs(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}
	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: open %s: %w", rel, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(abs)
		return "", fmt.Errorf("storage: write %s: %w", rel, err)
	}
	return rel, nil
}

// Delete removes a stored file. Deleting a missing file is not an error.
func (d *Disk) Delete(ctx context.Context, rel string) error {
	abs, err := d.Abs(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", rel, err)
	}
	return nil
}

// Abs resolves a relative stored path to an absolute one, refusing paths
// that would land outside the root.
func (d *Disk) Abs(rel string) (string, error) {
	cleaned := path.Clean("/" + rel)
	abs := filepath.Join(d.root, filepath.FromSlash(cleaned))
	if abs != d.root && !strings.HasPrefix(abs, d.root+string(filepath.Separator)) {
		return "", ErrEscapesRoot
	}
	return abs, nil
}

// Stat returns file metadata for a stored path.
func (d *Disk) Stat(rel string) (fs.FileInfo, error) {
	abs, err := d.Abs(rel)
	if err != nil {
		return nil, err
	}
	return os.Stat(abs)
}

// Walk visits every stored file under dir, passing relative paths.
func (d *Disk) Walk(dir string, fn func(rel string, info fs.FileInfo) error) error {
	abs, err := d.Abs(dir)
	if err != nil {
		return err
	}
	return filepath.Walk(abs, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel), info)
	})
}

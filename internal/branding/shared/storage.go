package shared

import (
	"context"
	"io"
	"io/fs"
	"path"
	"strings"
)

// Upload describes an incoming file before it reaches the store.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Ext returns the lower-cased extension of the upload without the dot.
func (u Upload) Ext() string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(u.Filename)), ".")
}

// FileStore is the slice of the public disk the branding managers use.
type FileStore interface {
	Store(ctx context.Context, dir, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, rel string) error
	Abs(rel string) (string, error)
	Stat(rel string) (fs.FileInfo, error)
}

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/phenrril/galeria/internal/domain"
)

// LocalFS writes uploads under Dir; they are served back from URLPrefix.
type LocalFS struct {
	Dir       string
	URLPrefix string
}

func NewLocalFS(dir string) *LocalFS {
	return &LocalFS{Dir: dir, URLPrefix: "/uploads/"}
}

func (l *LocalFS) Upload(ctx context.Context, p string, r io.Reader, size int64, progress domain.ProgressFunc) (string, error) {
	key, err := cleanPath(p)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(l.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()

	src := withProgress(ctxReader{ctx: ctx, r: r}, size, progress)
	if _, err := io.Copy(f, src); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return l.URLPrefix + key, nil
}

// ctxReader stops a copy once the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(b []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(b)
}

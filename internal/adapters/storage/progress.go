// Package storage implements domain.FileStorage on a local directory and on
// a Cloud Storage bucket.
package storage

import (
	"errors"
	"io"
	"path"
	"strings"

	"github.com/phenrril/galeria/internal/domain"
)

var ErrBadPath = errors.New("invalid storage path")

// progressReader reports cumulative bytes to fn as the wrapped reader is
// consumed.
type progressReader struct {
	r     io.Reader
	sent  int64
	total int64
	fn    domain.ProgressFunc
}

func withProgress(r io.Reader, total int64, fn domain.ProgressFunc) io.Reader {
	if fn == nil {
		return r
	}
	if total <= 0 {
		total = -1
	}
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.fn(p.sent, p.total)
	}
	return n, err
}

// cleanPath turns a caller path into a slash-separated relative key. Paths
// that escape the root are rejected.
func cleanPath(p string) (string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	p = strings.ReplaceAll(p, " ", "_")
	if p == "" {
		return "", ErrBadPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", ErrBadPath
		}
	}
	c := strings.TrimPrefix(path.Clean("/"+p), "/")
	if c == "" || c == "." {
		return "", ErrBadPath
	}
	return c, nil
}

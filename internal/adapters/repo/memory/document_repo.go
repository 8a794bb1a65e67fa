// Package memory is the in-process document store used in development and
// tests.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/galeria/internal/domain"
)

type DocumentRepo struct {
	mu    sync.RWMutex
	cols  map[string][]*domain.Document
	clock func() time.Time
}

func NewDocumentRepo() *DocumentRepo {
	return &DocumentRepo{cols: map[string][]*domain.Document{}, clock: time.Now}
}

func (r *DocumentRepo) FetchAll(ctx context.Context, collection string) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.cols[collection]
	out := make([]domain.Document, 0, len(src))
	for _, d := range src {
		out = append(out, clone(d))
	}
	return out, nil
}

func (r *DocumentRepo) FetchByID(ctx context.Context, collection, id string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.cols[collection] {
		if d.ID == id {
			c := clone(d)
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *DocumentRepo) Create(ctx context.Context, collection string, data map[string]any) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cp := make(map[string]any, len(data))
	for k, v := range data {
		cp[k] = v
	}
	id, _ := cp["id"].(string)
	if strings.TrimSpace(id) == "" {
		id = uuid.New().String()
	}
	delete(cp, "id")
	now := r.clock()
	d := &domain.Document{Collection: collection, ID: id, Data: cp, CreatedAt: now, UpdatedAt: now}

	r.mu.Lock()
	for _, old := range r.cols[collection] {
		if old.ID == id {
			r.mu.Unlock()
			return nil, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrConflict)
		}
	}
	r.cols[collection] = append(r.cols[collection], d)
	r.mu.Unlock()

	c := clone(d)
	return &c, nil
}

func (r *DocumentRepo) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.cols[collection] {
		if d.ID != id {
			continue
		}
		for k, v := range fields {
			d.Data[k] = v
		}
		d.UpdatedAt = r.clock()
		return nil
	}
	return domain.ErrNotFound
}

func (r *DocumentRepo) Count(ctx context.Context, collection string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.cols[collection])), nil
}

func clone(d *domain.Document) domain.Document {
	c := *d
	c.Data = make(map[string]any, len(d.Data))
	for k, v := range d.Data {
		c.Data[k] = v
	}
	return c
}

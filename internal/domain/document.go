package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
	ErrConflict = errors.New("already exists")
)

// ValidationError reports the first offending form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

func (e *ValidationError) Unwrap() error { return ErrInvalid }

const (
	CollectionWatches  = "watches"
	CollectionArt      = "art"
	CollectionTrades   = "trades"
	CollectionSells    = "sells"
	CollectionContacts = "contacts"
)

// Document is a raw record as held by the document store. Data keeps
// whatever shape the writer used; readers go through the normalizer.
type Document struct {
	Collection string         `gorm:"primaryKey;size:60"`
	ID         string         `gorm:"primaryKey;size:64"`
	Data       map[string]any `gorm:"type:jsonb;serializer:json"`
	CreatedAt  time.Time      `gorm:"index"`
	UpdatedAt  time.Time
}

// Raw returns the document data with its id merged in, the shape the
// normalizer expects.
func (d Document) Raw() map[string]any {
	out := make(map[string]any, len(d.Data)+1)
	for k, v := range d.Data {
		out[k] = v
	}
	out["id"] = d.ID
	return out
}

// DocumentStore keeps raw documents per collection. Create honours a
// caller-supplied "id" and fails with ErrConflict when it is taken.
type DocumentStore interface {
	FetchAll(ctx context.Context, collection string) ([]Document, error)
	FetchByID(ctx context.Context, collection, id string) (*Document, error)
	Create(ctx context.Context, collection string, data map[string]any) (*Document, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
}

// SearchIndex returns raw hits in ranking order. Pages start at 0.
type SearchIndex interface {
	Query(ctx context.Context, text string, page int) ([]map[string]any, error)
}

// ProgressFunc receives the bytes sent so far and the total (-1 if unknown).
type ProgressFunc func(sent, total int64)

type FileStorage interface {
	Upload(ctx context.Context, path string, r io.Reader, size int64, progress ProgressFunc) (string, error)
}

// DocumentCreated is emitted after a submission has been written.
type DocumentCreated struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

type EventDispatcher interface {
	Dispatch(ctx context.Context, ev DocumentCreated) error
}

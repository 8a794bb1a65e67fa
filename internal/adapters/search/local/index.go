// Package local answers search queries by scanning the document store. It
// stands in for the hosted index when no credentials are configured.
package local

import (
	"context"

	"github.com/phenrril/galeria/internal/catalog"
	"github.com/phenrril/galeria/internal/domain"
)

type Index struct {
	docs       domain.DocumentStore
	collection string
	perPage    int
}

func NewIndex(docs domain.DocumentStore, collection string, perPage int) *Index {
	if perPage <= 0 {
		perPage = 20
	}
	return &Index{docs: docs, collection: collection, perPage: perPage}
}

// Query matches brand or model, in store order.
func (ix *Index) Query(ctx context.Context, text string, page int) ([]map[string]any, error) {
	docs, err := ix.docs.FetchAll(ctx, ix.collection)
	if err != nil {
		return nil, err
	}
	matched := []map[string]any{}
	for _, d := range docs {
		raw := d.Raw()
		w := catalog.NormalizeWatch(raw)
		if len(catalog.FilterWatches([]domain.Watch{w}, text, catalog.FieldBrand, catalog.FieldModel)) == 1 {
			matched = append(matched, raw)
		}
	}
	if page < 0 {
		page = 0
	}
	start := page * ix.perPage
	if start >= len(matched) {
		return []map[string]any{}, nil
	}
	end := start + ix.perPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

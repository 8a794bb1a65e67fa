package usecase

import (
	"context"
	"fmt"

	"github.com/phenrril/galeria/internal/catalog"
	"github.com/phenrril/galeria/internal/domain"
	"github.com/phenrril/galeria/internal/fence"
)

type SearchUC struct {
	Index domain.SearchIndex
	Fence *fence.Fence
}

func NewSearchUC(ix domain.SearchIndex) *SearchUC {
	return &SearchUC{Index: ix, Fence: fence.New()}
}

// Search queries the index under key (usually the session id). A search
// that is overtaken by a newer one for the same key returns
// fence.ErrSuperseded and its hits are discarded. An empty key runs
// unfenced.
func (uc *SearchUC) Search(ctx context.Context, key, text string, page int, sort domain.SortOption) ([]domain.Watch, error) {
	query := func(ctx context.Context) ([]domain.Watch, error) {
		hits, err := uc.Index.Query(ctx, text, page)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", text, err)
		}
		return catalog.SortWatches(catalog.NormalizeWatches(hits), sort), nil
	}
	if key == "" {
		return query(ctx)
	}
	return fence.Do(ctx, uc.Fence, "search:"+key, query)
}

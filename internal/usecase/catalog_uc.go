package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/phenrril/galeria/internal/catalog"
	"github.com/phenrril/galeria/internal/domain"
)

// ListQuery narrows and orders a catalog listing. Fields only applies to
// watches; empty means brand only.
type ListQuery struct {
	Query  string
	Sort   domain.SortOption
	Fields []catalog.WatchField
}

type CatalogUC struct {
	Docs          domain.DocumentStore
	BrandPriority []string
}

// Arrivals is the home page feed.
type Arrivals struct {
	Watches []domain.Watch    `json:"watches"`
	Art     []domain.ArtPiece `json:"art"`
}

func (uc *CatalogUC) allWatches(ctx context.Context) ([]domain.Watch, error) {
	docs, err := uc.Docs.FetchAll(ctx, domain.CollectionWatches)
	if err != nil {
		return nil, fmt.Errorf("fetch watches: %w", err)
	}
	out := make([]domain.Watch, 0, len(docs))
	for _, d := range docs {
		out = append(out, catalog.NormalizeWatch(d.Raw()))
	}
	return out, nil
}

func (uc *CatalogUC) allArt(ctx context.Context) ([]domain.ArtPiece, error) {
	docs, err := uc.Docs.FetchAll(ctx, domain.CollectionArt)
	if err != nil {
		return nil, fmt.Errorf("fetch art: %w", err)
	}
	out := make([]domain.ArtPiece, 0, len(docs))
	for _, d := range docs {
		out = append(out, catalog.NormalizeArtPiece(d.Raw()))
	}
	return out, nil
}

func (uc *CatalogUC) Watches(ctx context.Context, q ListQuery) ([]domain.Watch, error) {
	list, err := uc.allWatches(ctx)
	if err != nil {
		return nil, err
	}
	list = catalog.FilterWatches(list, q.Query, q.Fields...)
	return catalog.SortWatches(list, q.Sort), nil
}

func (uc *CatalogUC) Watch(ctx context.Context, id string) (*domain.Watch, error) {
	if id == "" {
		return nil, &domain.ValidationError{Field: "id", Message: "required"}
	}
	d, err := uc.Docs.FetchByID(ctx, domain.CollectionWatches, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch watch %s: %w", id, err)
	}
	w := catalog.NormalizeWatch(d.Raw())
	return &w, nil
}

func (uc *CatalogUC) ArtPieces(ctx context.Context, q ListQuery) ([]domain.ArtPiece, error) {
	list, err := uc.allArt(ctx)
	if err != nil {
		return nil, err
	}
	list = catalog.FilterArt(list, q.Query)
	return catalog.SortArt(list, q.Sort), nil
}

func (uc *CatalogUC) ArtPiece(ctx context.Context, id string) (*domain.ArtPiece, error) {
	if id == "" {
		return nil, &domain.ValidationError{Field: "id", Message: "required"}
	}
	d, err := uc.Docs.FetchByID(ctx, domain.CollectionArt, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch art %s: %w", id, err)
	}
	a := catalog.NormalizeArtPiece(d.Raw())
	return &a, nil
}

func (uc *CatalogUC) Brands(ctx context.Context) ([]domain.BrandSummary, error) {
	list, err := uc.allWatches(ctx)
	if err != nil {
		return nil, err
	}
	priority := uc.BrandPriority
	if priority == nil {
		priority = catalog.DefaultBrandPriority
	}
	return catalog.AggregateBrands(list, priority), nil
}

// NewArrivals loads both collections concurrently; either failure fails
// the whole feed.
func (uc *CatalogUC) NewArrivals(ctx context.Context) (*Arrivals, error) {
	var watches []domain.Watch
	var art []domain.ArtPiece
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := uc.allWatches(gctx)
		if err != nil {
			return err
		}
		watches = catalog.NewArrivals(list)
		return nil
	})
	g.Go(func() error {
		list, err := uc.allArt(gctx)
		if err != nil {
			return err
		}
		art = catalog.NewArrivalArt(list)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Arrivals{Watches: watches, Art: art}, nil
}

// ImportResult counts what ImportWatches did.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ImportWatches upserts raw watch rows. A row whose id already exists has
// its fields merged into the stored document, so importing an export
// again leaves one document per id. A failed run can be repeated.
func (uc *CatalogUC) ImportWatches(ctx context.Context, rows []map[string]any) (ImportResult, error) {
	var res ImportResult
	for i, row := range rows {
		_, err := uc.Docs.Create(ctx, domain.CollectionWatches, row)
		if err == nil {
			res.Created++
			continue
		}
		if !errors.Is(err, domain.ErrConflict) {
			return res, fmt.Errorf("import row %d: %w", i+1, err)
		}
		id, _ := row["id"].(string)
		fields := make(map[string]any, len(row))
		for k, v := range row {
			if k != "id" {
				fields[k] = v
			}
		}
		if err := uc.Docs.Update(ctx, domain.CollectionWatches, id, fields); err != nil {
			return res, fmt.Errorf("import row %d: %w", i+1, err)
		}
		res.Updated++
	}
	return res, nil
}

package catalog

import (
	"sort"
	"strings"

	"github.com/phenrril/galeria/internal/domain"
)

// SortWatches returns a sorted copy. Equal prices are ordered by id so the
// result does not depend on fetch order.
func SortWatches(list []domain.Watch, opt domain.SortOption) []domain.Watch {
	out := append([]domain.Watch(nil), list...)
	if opt != domain.SortPriceAsc && opt != domain.SortPriceDesc {
		return out
	}
	desc := opt == domain.SortPriceDesc
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Price != b.Price {
			if desc {
				return a.Price > b.Price
			}
			return a.Price < b.Price
		}
		return a.ID < b.ID
	})
	return out
}

// SortArt orders priced pieces by amount; pieces on request go last in
// either direction.
func SortArt(list []domain.ArtPiece, opt domain.SortOption) []domain.ArtPiece {
	out := append([]domain.ArtPiece(nil), list...)
	if opt != domain.SortPriceAsc && opt != domain.SortPriceDesc {
		return out
	}
	desc := opt == domain.SortPriceDesc
	sort.SliceStable(out, func(i, j int) bool {
		pa, aok := out[i].Price.Amount()
		pb, bok := out[j].Price.Amount()
		switch {
		case aok != bok:
			return aok
		case aok && pa != pb:
			if desc {
				return pa > pb
			}
			return pa < pb
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type WatchField int

const (
	FieldBrand WatchField = iota
	FieldModel
)

// FilterWatches keeps the watches whose fields contain query, ignoring case.
// With no fields given only the brand is matched. A blank query keeps all.
// The result never shares the input's backing array.
func FilterWatches(list []domain.Watch, query string, fields ...WatchField) []domain.Watch {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]domain.Watch{}, list...)
	}
	if len(fields) == 0 {
		fields = []WatchField{FieldBrand}
	}
	out := []domain.Watch{}
	for _, w := range list {
		for _, f := range fields {
			var v string
			switch f {
			case FieldBrand:
				v = w.Brand
			case FieldModel:
				v = w.Model
			}
			if strings.Contains(strings.ToLower(v), q) {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

// FilterArt matches on title or artist.
func FilterArt(list []domain.ArtPiece, query string) []domain.ArtPiece {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]domain.ArtPiece{}, list...)
	}
	out := []domain.ArtPiece{}
	for _, a := range list {
		if strings.Contains(strings.ToLower(a.Title), q) || strings.Contains(strings.ToLower(a.Artist), q) {
			out = append(out, a)
		}
	}
	return out
}

// NewArrivals keeps the flagged watches, in order.
func NewArrivals(list []domain.Watch) []domain.Watch {
	out := []domain.Watch{}
	for _, w := range list {
		if w.NewArrival {
			out = append(out, w)
		}
	}
	return out
}

func NewArrivalArt(list []domain.ArtPiece) []domain.ArtPiece {
	out := []domain.ArtPiece{}
	for _, a := range list {
		if a.NewArrival {
			out = append(out, a)
		}
	}
	return out
}

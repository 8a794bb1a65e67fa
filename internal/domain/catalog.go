package domain

import "strings"

// BrandSummary is derived from the watch list, never stored.
type BrandSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Models int    `json:"models"`
	Image  string `json:"image,omitempty"`
}

type SortOption string

const (
	SortNone      SortOption = "none"
	SortPriceAsc  SortOption = "price_asc"
	SortPriceDesc SortOption = "price_desc"
)

// ParseSortOption accepts the query-string spellings used by the storefront.
// Unknown values mean no sorting.
func ParseSortOption(s string) SortOption {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "price_asc", "asc", "ascending", "low-high":
		return SortPriceAsc
	case "price_desc", "desc", "descending", "high-low":
		return SortPriceDesc
	}
	return SortNone
}

type FavoriteKind string

const (
	FavoriteKindWatch FavoriteKind = "watch"
	FavoriteKindArt   FavoriteKind = "art"
)

// Favorite references either a Watch or an ArtPiece. Kind is set at
// construction and decides which pointer is populated.
type Favorite struct {
	Kind  FavoriteKind `json:"kind"`
	Watch *Watch       `json:"watch,omitempty"`
	Art   *ArtPiece    `json:"art,omitempty"`
}

func FavoriteWatch(w Watch) Favorite { return Favorite{Kind: FavoriteKindWatch, Watch: &w} }

func FavoriteArt(a ArtPiece) Favorite { return Favorite{Kind: FavoriteKindArt, Art: &a} }

func (f Favorite) ID() string {
	switch f.Kind {
	case FavoriteKindWatch:
		if f.Watch != nil {
			return f.Watch.ID
		}
	case FavoriteKindArt:
		if f.Art != nil {
			return f.Art.ID
		}
	}
	return ""
}

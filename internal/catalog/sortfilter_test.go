package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phenrril/galeria/internal/domain"
)

func prices(list []domain.Watch) []float64 {
	out := make([]float64, 0, len(list))
	for _, w := range list {
		out = append(out, w.Price)
	}
	return out
}

func TestSortWatches(t *testing.T) {
	list := []domain.Watch{{ID: "a", Price: 30}, {ID: "b", Price: 10}, {ID: "c", Price: 20}}

	t.Run("AscendingThenDescending", func(t *testing.T) {
		asc := SortWatches(list, domain.SortPriceAsc)
		require.Equal(t, []float64{10, 20, 30}, prices(asc))
		desc := SortWatches(asc, domain.SortPriceDesc)
		require.Equal(t, []float64{30, 20, 10}, prices(desc))
	})

	t.Run("Idempotent", func(t *testing.T) {
		once := SortWatches(list, domain.SortPriceAsc)
		twice := SortWatches(once, domain.SortPriceAsc)
		require.Equal(t, once, twice)
	})

	t.Run("NoneKeepsFetchOrder", func(t *testing.T) {
		require.Equal(t, list, SortWatches(list, domain.SortNone))
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		_ = SortWatches(list, domain.SortPriceAsc)
		require.Equal(t, "a", list[0].ID)
	})

	t.Run("TiesBrokenByID", func(t *testing.T) {
		tied := []domain.Watch{{ID: "z", Price: 5}, {ID: "m", Price: 5}, {ID: "a", Price: 5}}
		got := SortWatches(tied, domain.SortPriceDesc)
		require.Equal(t, "a", got[0].ID)
		require.Equal(t, "m", got[1].ID)
		require.Equal(t, "z", got[2].ID)
	})
}

func TestSortArt(t *testing.T) {
	list := []domain.ArtPiece{
		{ID: "a", Price: domain.OnRequest()},
		{ID: "b", Price: domain.Priced(500)},
		{ID: "c", Price: domain.Priced(100)},
	}
	asc := SortArt(list, domain.SortPriceAsc)
	require.Equal(t, []string{"c", "b", "a"}, []string{asc[0].ID, asc[1].ID, asc[2].ID})
	desc := SortArt(list, domain.SortPriceDesc)
	require.Equal(t, []string{"b", "c", "a"}, []string{desc[0].ID, desc[1].ID, desc[2].ID})
}

func TestFilterWatches(t *testing.T) {
	list := []domain.Watch{{ID: "1", Brand: "Rolex", Model: "Daytona"}, {ID: "2", Brand: "Omega", Model: "Speedmaster"}}

	t.Run("BrandSubstringIgnoresCase", func(t *testing.T) {
		got := FilterWatches(list, "role")
		require.Len(t, got, 1)
		require.Equal(t, "1", got[0].ID)
	})

	t.Run("EmptyQueryReturnsAll", func(t *testing.T) {
		require.Equal(t, list, FilterWatches(list, ""))
		require.Equal(t, list, FilterWatches(list, "   "))
	})

	t.Run("EmptyQueryReturnsCopy", func(t *testing.T) {
		got := FilterWatches(list, "")
		got[0].Brand = "changed"
		require.Equal(t, "Rolex", list[0].Brand)
		require.NotNil(t, FilterWatches(nil, ""))
	})

	t.Run("ModelOnlyWhenAsked", func(t *testing.T) {
		require.Empty(t, FilterWatches(list, "speed"))
		got := FilterWatches(list, "SPEED", FieldBrand, FieldModel)
		require.Len(t, got, 1)
		require.Equal(t, "2", got[0].ID)
	})
}

func TestFilterArt(t *testing.T) {
	list := []domain.ArtPiece{{ID: "1", Title: "Blue Hour", Artist: "Ana Ruiz"}, {ID: "2", Title: "Dune", Artist: "K. Ito"}}
	got := FilterArt(list, "ruiz")
	require.Len(t, got, 1)
	require.Equal(t, "1", got[0].ID)
	require.Len(t, FilterArt(list, ""), 2)

	all := FilterArt(list, " ")
	all[1].Title = "changed"
	require.Equal(t, "Dune", list[1].Title)
}

func TestParseSortOption(t *testing.T) {
	require.Equal(t, domain.SortPriceAsc, domain.ParseSortOption("price_asc"))
	require.Equal(t, domain.SortPriceDesc, domain.ParseSortOption(" DESC "))
	require.Equal(t, domain.SortNone, domain.ParseSortOption("newest"))
}

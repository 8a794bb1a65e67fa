package catalog

import (
	"sort"
	"strings"

	"github.com/phenrril/galeria/internal/domain"
)

// DefaultBrandPriority is the display order of the house brands on the
// brands screen. Everything else follows alphabetically.
var DefaultBrandPriority = []string{
	"Rolex",
	"Patek Philippe",
	"Audemars Piguet",
	"Richard Mille",
	"Vacheron Constantin",
	"A. Lange & Söhne",
	"Cartier",
	"Omega",
}

// AggregateBrands groups watches by brand, case-insensitively, and orders
// the groups by priority then name. The first item seen for a brand decides
// the displayed spelling and the sample image.
func AggregateBrands(items []domain.Watch, priority []string) []domain.BrandSummary {
	index := map[string]int{}
	out := []domain.BrandSummary{}
	for _, it := range items {
		name := strings.TrimSpace(it.Brand)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if i, ok := index[key]; ok {
			out[i].Models++
			continue
		}
		index[key] = len(out)
		out = append(out, domain.BrandSummary{
			ID:     name,
			Name:   name,
			Models: 1,
			Image:  it.FirstImage(),
		})
	}

	rank := make(map[string]int, len(priority))
	for i, p := range priority {
		k := strings.ToLower(strings.TrimSpace(p))
		if _, dup := rank[k]; !dup {
			rank[k] = i
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return brandLess(out[i].Name, out[j].Name, rank)
	})
	return out
}

func brandLess(a, b string, rank map[string]int) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	ra, aok := rank[la]
	rb, bok := rank[lb]
	switch {
	case aok && bok:
		return ra < rb
	case aok != bok:
		return aok
	}
	return la < lb
}

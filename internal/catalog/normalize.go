// Package catalog shapes raw documents into the typed records the storefront
// works with: normalization, brand summaries, sorting and text filtering.
package catalog

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/phenrril/galeria/internal/domain"
)

// NormalizeWatch maps one raw document (store record or search hit) to a
// Watch. Malformed fields degrade to their defaults.
func NormalizeWatch(raw map[string]any) domain.Watch {
	price, _ := toAmount(raw["price"])
	return domain.Watch{
		ID:           toKey(raw, "id", "objectID"),
		Brand:        toKey(raw, "brand"),
		Model:        toKey(raw, "model"),
		Price:        price,
		Images:       imagesOf(raw),
		Year:         toString(raw, "year"),
		CaseMaterial: toString(raw, "caseMaterial"),
		CaseDiameter: toString(raw, "caseDiameter"),
		Movement:     toString(raw, "movement"),
		PowerReserve: toString(raw, "powerReserve"),
		Dial:         toString(raw, "dial"),
		Strap:        toString(raw, "strap"),
		Box:          toBool(raw["box"]),
		Papers:       toBool(raw["papers"]),
		NewArrival:   toBool(raw["newArrival"]),
		Likes:        toCount(raw["likes"]),
	}
}

// NormalizeArtPiece maps one raw document to an ArtPiece. A missing or
// unreadable price becomes "on request".
func NormalizeArtPiece(raw map[string]any) domain.ArtPiece {
	return domain.ArtPiece{
		ID:          toKey(raw, "id", "objectID"),
		Title:       toString(raw, "title"),
		Artist:      toString(raw, "artist"),
		Year:        toString(raw, "year"),
		Medium:      toString(raw, "medium"),
		Dimensions:  toString(raw, "dimensions"),
		Description: toString(raw, "description"),
		Price:       artPrice(raw["price"]),
		Images:      imagesOf(raw),
		NewArrival:  toBool(raw["newArrival"]),
	}
}

func NormalizeWatches(raws []map[string]any) []domain.Watch {
	out := make([]domain.Watch, 0, len(raws))
	for _, r := range raws {
		out = append(out, NormalizeWatch(r))
	}
	return out
}

func NormalizeArtPieces(raws []map[string]any) []domain.ArtPiece {
	out := make([]domain.ArtPiece, 0, len(raws))
	for _, r := range raws {
		out = append(out, NormalizeArtPiece(r))
	}
	return out
}

// toString returns the first key present in raw, coerced to a string.
// The text is kept as written.
func toString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return ""
		}
		return s
	}
	return ""
}

// toKey is toString for identifiers and grouping keys (id, brand, model),
// which are trimmed so " Rolex" and "Rolex" group and filter alike.
func toKey(raw map[string]any, keys ...string) string {
	return strings.TrimSpace(toString(raw, keys...))
}

func toAmount(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		f, err = cast.ToFloat64E(t)
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

func artPrice(v any) domain.Price {
	if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), domain.PriceOnRequestLabel) {
		return domain.OnRequest()
	}
	if f, ok := toAmount(v); ok {
		return domain.Priced(f)
	}
	return domain.OnRequest()
}

func toBool(v any) bool {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return b
}

func toCount(v any) int {
	if _, ok := v.(bool); ok {
		return 0
	}
	n, err := cast.ToIntE(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func imagesOf(raw map[string]any) []string {
	if v, ok := raw["image"]; ok && v != nil {
		return toImages(v)
	}
	return toImages(raw["images"])
}

// toImages always returns a non-nil list. Lists keep their order, scalars
// are wrapped and keyed maps are read in object iteration order.
func toImages(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case nil:
	case []string:
		out = append(out, t...)
	case []any:
		for _, e := range t {
			if s, ok := scalarString(e); ok {
				out = append(out, s)
			}
		}
	case map[string]any:
		for _, k := range objectKeyOrder(t) {
			if s, ok := scalarString(t[k]); ok {
				out = append(out, s)
			}
		}
	case map[string]string:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sortObjectKeys(keys)
		for _, k := range keys {
			out = append(out, t[k])
		}
	default:
		if s, ok := scalarString(t); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func scalarString(v any) (string, bool) {
	switch v.(type) {
	case nil, map[string]any, []any:
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}

func objectKeyOrder(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortObjectKeys(keys)
	return keys
}

// sortObjectKeys orders keys the way a JavaScript object enumerates them:
// array-index keys ascending, then the rest. Insertion order is not
// recoverable from a Go map, so the rest go lexically.
func sortObjectKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		ni, iok := arrayIndex(keys[i])
		nj, jok := arrayIndex(keys[j])
		switch {
		case iok && jok:
			return ni < nj
		case iok != jok:
			return iok
		}
		return keys[i] < keys[j]
	})
}

func arrayIndex(k string) (uint64, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(k, 10, 32)
	if err != nil {
		return 0, false
	}
	return n, true
}

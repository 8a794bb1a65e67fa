package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/galeria/internal/domain"
)

func seedCatalog(ctx context.Context, st store) error {
	seeds := map[string][]map[string]any{
		domain.CollectionWatches: sampleWatches(),
		domain.CollectionArt:     sampleArt(),
	}
	for _, col := range []string{domain.CollectionWatches, domain.CollectionArt} {
		n, err := st.Count(ctx, col)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		for _, d := range seeds[col] {
			if _, err := st.Create(ctx, col, d); err != nil {
				return err
			}
		}
		log.Info().Str("collection", col).Int("docs", len(seeds[col])).Msg("seeded")
	}
	return nil
}

func sampleWatches() []map[string]any {
	return []map[string]any{
		{
			"brand": "Rolex", "model": "Submariner Date 126610LN", "price": 14950,
			"image": []any{"/public/watches/sub-1.jpg", "/public/watches/sub-2.jpg"},
			"year": "2022", "caseMaterial": "Oystersteel", "caseDiameter": "41mm",
			"movement": "Automatic, cal. 3235", "powerReserve": "70 hours", "dial": "Black",
			"strap": "Oyster bracelet", "box": true, "papers": true, "newArrival": true,
		},
		{
			"brand": "Patek Philippe", "model": "Nautilus 5711/1A", "price": "125000",
			"image": map[string]any{"0": "/public/watches/naut-1.jpg"},
			"year": "2019", "caseMaterial": "Steel", "caseDiameter": "40mm",
			"movement": "Automatic, cal. 26-330 S C", "dial": "Blue", "box": true, "papers": true,
		},
		{
			"brand": "Omega", "model": "Speedmaster Moonwatch", "price": 6800,
			"image": "/public/watches/speedy.jpg", "year": "2021", "caseDiameter": "42mm",
			"movement": "Manual, cal. 3861", "powerReserve": "50 hours", "dial": "Black",
			"strap": "Steel bracelet", "box": true, "papers": false,
		},
		{
			"brand": "Audemars Piguet", "model": "Royal Oak 15500ST", "price": 48500,
			"image": []any{"/public/watches/ro-1.jpg"}, "year": "2020", "caseDiameter": "41mm",
			"movement": "Automatic, cal. 4302", "dial": "Grey", "box": true, "papers": true, "newArrival": "true",
		},
		{
			"brand": "Tudor", "model": "Black Bay 58", "price": 3900,
			"images": []any{"/public/watches/bb58.jpg"}, "year": "2023", "caseDiameter": "39mm",
			"movement": "Automatic, MT5402", "dial": "Black", "strap": "Leather",
		},
		{
			"brand": "Rolex", "model": "Daytona 116500LN", "price": 29500,
			"image": []any{"/public/watches/daytona.jpg"}, "year": "2018", "caseDiameter": "40mm",
			"movement": "Automatic, cal. 4130", "dial": "White", "box": true, "papers": true,
		},
	}
}

func sampleArt() []map[string]any {
	return []map[string]any{
		{
			"title": "Harbour at Dusk", "artist": "Vera Lind", "year": "2019", "medium": "Oil on canvas",
			"dimensions": "120 x 90 cm", "price": domain.PriceOnRequestLabel, "newArrival": true,
			"description": "Large harbour scene in muted blues.", "image": []any{"/public/art/harbour.jpg"},
		},
		{
			"title": "Dunes II", "artist": "Ali Haddad", "year": "2021", "medium": "Acrylic on linen",
			"dimensions": "80 x 80 cm", "price": 4500, "image": []any{"/public/art/dunes.jpg"},
		},
		{
			"title": "Study in Ochre", "artist": "M. Okafor", "year": "2016", "medium": "Gouache on paper",
			"dimensions": "40 x 30 cm", "price": "1200", "image": "/public/art/ochre.jpg",
		},
	}
}

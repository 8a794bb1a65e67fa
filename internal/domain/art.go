package domain

import (
	"encoding/json"
	"strconv"
)

// PriceOnRequestLabel is the display sentinel used by the catalog for art
// without a public price.
const PriceOnRequestLabel = "Price Upon Request"

// Price is either a concrete amount or "on request". The zero value is on
// request.
type Price struct {
	amount float64
	priced bool
}

// Priced returns a price with a concrete amount.
func Priced(amount float64) Price { return Price{amount: amount, priced: true} }

// OnRequest returns the "Price Upon Request" variant.
func OnRequest() Price { return Price{} }

// Amount reports the amount and whether the price is concrete.
func (p Price) Amount() (float64, bool) { return p.amount, p.priced }

func (p Price) IsOnRequest() bool { return !p.priced }

func (p Price) String() string {
	if !p.priced {
		return PriceOnRequestLabel
	}
	return strconv.FormatFloat(p.amount, 'f', -1, 64)
}

// MarshalJSON keeps the wire shape of the catalog: a number, or the sentinel
// string.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.priced {
		return json.Marshal(PriceOnRequestLabel)
	}
	return json.Marshal(p.amount)
}

// UnmarshalJSON accepts what MarshalJSON writes. Anything that is not a
// number reads as on request.
func (p *Price) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*p = Priced(f)
		return nil
	}
	*p = OnRequest()
	return nil
}

// ArtPiece is the canonical catalog record for an artwork.
type ArtPiece struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	Year        string   `json:"year"`
	Medium      string   `json:"medium"`
	Dimensions  string   `json:"dimensions"`
	Description string   `json:"description"`
	Price       Price    `json:"price"`
	Images      []string `json:"images"`
	NewArrival  bool     `json:"newArrival"`
}

func (a ArtPiece) FirstImage() string {
	if len(a.Images) == 0 {
		return ""
	}
	return a.Images[0]
}

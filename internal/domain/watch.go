package domain

// Watch is the canonical catalog record for a timepiece. Every field has a
// defined zero value; the normalizer never leaves one unset.
type Watch struct {
	ID           string   `json:"id"`
	Brand        string   `json:"brand"`
	Model        string   `json:"model"`
	Price        float64  `json:"price"`
	Images       []string `json:"images"`
	Year         string   `json:"year"`
	CaseMaterial string   `json:"caseMaterial"`
	CaseDiameter string   `json:"caseDiameter"`
	Movement     string   `json:"movement"`
	PowerReserve string   `json:"powerReserve"`
	Dial         string   `json:"dial"`
	Strap        string   `json:"strap"`
	Box          bool     `json:"box"`
	Papers       bool     `json:"papers"`
	NewArrival   bool     `json:"newArrival"`
	Likes        int      `json:"likes"`
}

// FirstImage returns the first image URL or "".
func (w Watch) FirstImage() string {
	if len(w.Images) == 0 {
		return ""
	}
	return w.Images[0]
}

// Title is the display name used in lists and notifications.
func (w Watch) Title() string {
	switch {
	case w.Brand == "":
		return w.Model
	case w.Model == "":
		return w.Brand
	}
	return w.Brand + " " + w.Model
}

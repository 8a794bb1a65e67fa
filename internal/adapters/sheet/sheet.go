// Package sheet moves catalog data in and out of XLSX workbooks for the
// back office.
package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/galeria/internal/domain"
)

const imageSep = " | "

type column struct {
	header string
	key    string
}

var watchColumns = []column{
	{"ID", "id"},
	{"Brand", "brand"},
	{"Model", "model"},
	{"Price", "price"},
	{"Year", "year"},
	{"Case Material", "caseMaterial"},
	{"Case Diameter", "caseDiameter"},
	{"Movement", "movement"},
	{"Power Reserve", "powerReserve"},
	{"Dial", "dial"},
	{"Strap", "strap"},
	{"Box", "box"},
	{"Papers", "papers"},
	{"New Arrival", "newArrival"},
	{"Images", "image"},
}

var boolKeys = map[string]bool{"box": true, "papers": true, "newArrival": true}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func writeRows(w io.Writer, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := r
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

// ExportWatches writes one row per watch under a header row.
func ExportWatches(w io.Writer, watches []domain.Watch) error {
	header := make([]string, len(watchColumns))
	for i, c := range watchColumns {
		header[i] = c.header
	}
	rows := make([][]any, 0, len(watches))
	for _, wa := range watches {
		rows = append(rows, []any{
			wa.ID, wa.Brand, wa.Model, wa.Price, wa.Year, wa.CaseMaterial, wa.CaseDiameter,
			wa.Movement, wa.PowerReserve, wa.Dial, wa.Strap,
			yesNo(wa.Box), yesNo(wa.Papers), yesNo(wa.NewArrival),
			strings.Join(wa.Images, imageSep),
		})
	}
	return writeRows(w, "Watches", header, rows)
}

// ExportArt writes one row per piece; unpriced pieces show the
// price-on-request label.
func ExportArt(w io.Writer, pieces []domain.ArtPiece) error {
	header := []string{"ID", "Title", "Artist", "Year", "Medium", "Dimensions", "Price", "New Arrival", "Images"}
	rows := make([][]any, 0, len(pieces))
	for _, p := range pieces {
		var price any = domain.PriceOnRequestLabel
		if amt, ok := p.Price.Amount(); ok {
			price = amt
		}
		rows = append(rows, []any{
			p.ID, p.Title, p.Artist, p.Year, p.Medium, p.Dimensions, price,
			yesNo(p.NewArrival), strings.Join(p.Images, imageSep),
		})
	}
	return writeRows(w, "Art", header, rows)
}

// ImportWatches reads the first sheet, matching columns by header name, and
// returns raw watch documents ready to be stored. Unknown columns and blank
// rows are skipped.
func ImportWatches(r io.Reader) ([]map[string]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []map[string]any{}, nil
	}

	byHeader := map[string]string{}
	for _, c := range watchColumns {
		byHeader[strings.ToLower(c.header)] = c.key
		byHeader[strings.ToLower(c.key)] = c.key
	}
	keys := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		keys[i] = byHeader[strings.ToLower(strings.TrimSpace(h))]
	}

	out := []map[string]any{}
	for n, row := range rows[1:] {
		doc := map[string]any{}
		for i, cell := range row {
			if i >= len(keys) || keys[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			key := keys[i]
			switch {
			case key == "image":
				imgs := []any{}
				for _, u := range strings.Split(cell, "|") {
					if u = strings.TrimSpace(u); u != "" {
						imgs = append(imgs, u)
					}
				}
				doc[key] = imgs
			case key == "price":
				f, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
				if err != nil {
					return nil, fmt.Errorf("row %d: price %q: %w", n+2, cell, err)
				}
				doc[key] = f
			case boolKeys[key]:
				doc[key] = parseYes(cell)
			default:
				doc[key] = cell
			}
		}
		if len(doc) > 0 {
			out = append(out, doc)
		}
	}
	return out, nil
}

func parseYes(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "y", "si", "sí", "true", "1", "x":
		return true
	}
	return false
}

package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/brunobiangulo/slidegen/deck"
)

// maxTableRows bounds how many spreadsheet rows one slide table carries.
const maxTableRows = 12

type XLSXParser struct{}

func (p *XLSXParser) SupportedFormats() []string { return []string{"xlsx", "xls"} }

// Parse maps each non-empty sheet to one slide: the sheet name becomes
// the slide's heading block and the cell grid becomes a table element.
// Long sheets are truncated rather than paginated.
func (p *XLSXParser) Parse(ctx context.Context, path string) (*deck.Deck, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening XLSX: %w", err)
	}
	defer f.Close()

	d := &deck.Deck{Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}

	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}

		width := 0
		for _, row := range rows {
			if len(row) > width {
				width = len(row)
			}
		}
		if width == 0 {
			continue
		}

		if len(rows) > maxTableRows {
			rows = rows[:maxTableRows]
		}
		// Pad ragged rows so every table row has the same cell count
		cells := make([][]string, len(rows))
		for i, row := range rows {
			padded := make([]string, width)
			copy(padded, row)
			cells[i] = padded
		}

		d.Slides = append(d.Slides, deck.Slide{
			Blocks: []string{strings.ToUpper(sheet)},
			Tables: []deck.Table{{
				Rows:     cells,
				Position: deck.Point{X: 40, Y: 90},
				Size:     deck.Size{W: 640, H: 280},
			}},
		})
	}

	if len(d.Slides) == 0 {
		return nil, fmt.Errorf("no data found in XLSX")
	}
	return d, nil
}

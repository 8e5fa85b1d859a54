package pdfdoc

import (
	"bytes"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/pdfsplit/internal/heuristic"
)

// Rows further apart vertically than this start a new text block.
const blockGap = 20

// TextPages extracts per-page text lines with font sizes, shaped for the
// heuristic chapter detector. Rows of text on a page become lines; runs of
// rows separated by large vertical gaps become blocks. Pages that fail text
// extraction are returned with no blocks rather than failing the document.
func (d *Document) TextPages() ([]heuristic.Page, error) {
	r, err := pdflib.NewReader(bytes.NewReader(d.data), int64(len(d.data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf for text: %w", err)
	}

	numPages := r.NumPage()
	pages := make([]heuristic.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		hp := heuristic.Page{Number: i}
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, hp)
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			pages = append(pages, hp)
			continue
		}
		hp.Blocks = groupRows(rows)
		pages = append(pages, hp)
	}
	return pages, nil
}

// groupRows converts top-down text rows into blocks of lines.
func groupRows(rows pdflib.Rows) []heuristic.Block {
	var blocks []heuristic.Block
	var current heuristic.Block
	var prevPos int64

	for i, row := range rows {
		line := heuristic.Line{}
		for _, t := range row.Content {
			line.Spans = append(line.Spans, heuristic.Span{
				Text:     t.S,
				FontSize: t.FontSize,
			})
		}
		if len(line.Spans) == 0 {
			continue
		}

		if i > 0 && gap(prevPos, row.Position) > blockGap && len(current.Lines) > 0 {
			blocks = append(blocks, current)
			current = heuristic.Block{}
		}
		current.Lines = append(current.Lines, line)
		prevPos = row.Position
	}
	if len(current.Lines) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func gap(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}

// SampleText extracts text suited for model analysis: pages sampled evenly
// across the document, first 500 characters of each, whitespace collapsed,
// prefixed with page markers so the model can cite page numbers.
func (d *Document) SampleText(maxPages int) string {
	if maxPages < 1 {
		maxPages = 1
	}
	r, err := pdflib.NewReader(bytes.NewReader(d.data), int64(len(d.data)))
	if err != nil {
		return ""
	}

	numPages := r.NumPage()
	step := numPages / maxPages
	if step < 1 {
		step = 1
	}

	var samples []string
	for i := 1; i <= numPages; i += step {
		if len(samples) >= maxPages {
			break
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if len(text) > 500 {
			text = text[:500]
		}
		text = strings.Join(strings.Fields(text), " ")
		if text == "" {
			continue
		}
		samples = append(samples, fmt.Sprintf("[Page %d]: %s", i, text))
	}
	return strings.Join(samples, "\n\n")
}

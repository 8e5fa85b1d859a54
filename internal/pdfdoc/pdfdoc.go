// Package pdfdoc wraps the PDF libraries behind the narrow contract the rest
// of the service needs: page counts, outline entries, text with font sizes,
// metadata, and page-range extraction. pdfcpu handles document structure and
// page copying; ledongthuc/pdf provides text content with per-span font
// sizes for the heuristic detector.
package pdfdoc

import (
	"bytes"
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/dgallion1/pdfsplit/internal/outline"
)

// Document is an opened PDF held in memory. It is safe for sequential use
// only; the pipeline never shares one across goroutines.
type Document struct {
	data     []byte
	filename string
	ctx      *model.Context
}

// Open parses PDF bytes into a Document.
func Open(data []byte, filename string) (*Document, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	return &Document{data: data, filename: filename, ctx: ctx}, nil
}

func (d *Document) Filename() string { return d.filename }

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int { return d.ctx.PageCount }

// SizeMB returns the document size in megabytes.
func (d *Document) SizeMB() float64 { return float64(len(d.data)) / (1 << 20) }

// Outline returns the document's embedded table of contents flattened into
// (level, title, page) entries in document order. A document without
// bookmarks yields an empty slice.
func (d *Document) Outline() []outline.Entry {
	bms, err := pdfcpu.Bookmarks(d.ctx)
	if err != nil {
		return nil
	}
	var entries []outline.Entry
	flattenBookmarks(bms, 1, &entries)
	return entries
}

func flattenBookmarks(bms []pdfcpu.Bookmark, level int, out *[]outline.Entry) {
	for _, bm := range bms {
		*out = append(*out, outline.Entry{
			Level: level,
			Title: bm.Title,
			Page:  bm.PageFrom,
		})
		if len(bm.Kids) > 0 {
			flattenBookmarks(bm.Kids, level+1, out)
		}
	}
}

// ExtractRange copies pages [start, end] (1-indexed, inclusive) into a new
// single-range document and returns its bytes.
func (d *Document) ExtractRange(start, end int) ([]byte, error) {
	if start < 1 || end > d.ctx.PageCount || start > end {
		return nil, fmt.Errorf("invalid page range %d-%d (document has %d pages)", start, end, d.ctx.PageCount)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}

	extracted, err := pdfcpu.ExtractPages(d.ctx, pages, false)
	if err != nil {
		return nil, fmt.Errorf("extract pages %d-%d: %w", start, end, err)
	}

	var buf bytes.Buffer
	if err := api.WriteContext(extracted, &buf); err != nil {
		return nil, fmt.Errorf("write pages %d-%d: %w", start, end, err)
	}
	return buf.Bytes(), nil
}

// Metadata returns the document info dictionary's string entries
// (Title, Author, Producer and friends when present).
func (d *Document) Metadata() map[string]string {
	meta := map[string]string{}
	r, err := pdflib.NewReader(bytes.NewReader(d.data), int64(len(d.data)))
	if err != nil {
		return meta
	}
	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}
	for _, k := range info.Keys() {
		v := info.Key(k)
		if v.Kind() == pdflib.String {
			meta[k] = v.RawString()
		}
	}
	return meta
}

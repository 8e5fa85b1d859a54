package pdfdoc

import (
	"github.com/dgallion1/pdfsplit/internal/heuristic"
	"github.com/dgallion1/pdfsplit/internal/outline"
	"github.com/dgallion1/pdfsplit/internal/ranges"
)

// Info is a read-only snapshot of a loaded document: identity, size, and the
// chapters detected from its outline or, failing that, from text heuristics.
type Info struct {
	Filename   string            `json:"filename"`
	TotalPages int               `json:"total_pages"`
	FileSizeMB float64           `json:"file_size_mb"`
	HasTOC     bool              `json:"has_toc"`
	TOCDepth   int               `json:"toc_depth"`
	Chapters   []ranges.Chapter  `json:"chapters"`
	Metadata   map[string]string `json:"metadata"`
}

// Inspect builds the Info snapshot. tocDepth bounds how deep the outline is
// resolved; when the outline yields no chapters the text heuristic runs
// instead. Text extraction failures degrade to an empty chapter list, never
// an error; an empty list tells the caller to fall back to manual ranges.
func (d *Document) Inspect(tocDepth int) Info {
	entries := d.Outline()
	totalPages := d.PageCount()

	chapters := outline.Resolve(entries, totalPages, tocDepth)
	if len(chapters) == 0 {
		if pages, err := d.TextPages(); err == nil {
			chapters = heuristic.Detect(pages, totalPages)
		}
	}
	if chapters == nil {
		chapters = []ranges.Chapter{}
	}

	return Info{
		Filename:   d.filename,
		TotalPages: totalPages,
		FileSizeMB: d.SizeMB(),
		HasTOC:     len(entries) > 0,
		TOCDepth:   outline.Depth(entries),
		Chapters:   chapters,
		Metadata:   d.Metadata(),
	}
}

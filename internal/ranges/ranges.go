// Package ranges holds the page-range model and the pure range math used to
// derive, validate, and repair chapter splits. Pages are 1-indexed and end
// pages are inclusive throughout.
package ranges

import "fmt"

// Chapter is a detected or user-edited section of a document. Chapters are
// treated as immutable values: an edit replaces the chapter rather than
// mutating it in place.
type Chapter struct {
	Title     string `json:"title"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
	Level     int    `json:"level"`
}

// PageRange is the (start, end, name) tuple the parser and reconciler work
// with. It carries the same information as a Chapter minus the nesting level.
type PageRange struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Name  string `json:"name"`
}

func (c Chapter) String() string {
	return fmt.Sprintf("%s (Pages %d-%d)", c.Title, c.StartPage, c.EndPage)
}

// Range converts a chapter to its tuple form.
func (c Chapter) Range() PageRange {
	return PageRange{Start: c.StartPage, End: c.EndPage, Name: c.Title}
}

// ChapterFromRange lifts a tuple back into a top-level chapter.
func ChapterFromRange(r PageRange) Chapter {
	return Chapter{Title: r.Name, StartPage: r.Start, EndPage: r.End, Level: 1}
}

// FromChapters converts chapters to tuples for range math.
func FromChapters(chapters []Chapter) []PageRange {
	out := make([]PageRange, 0, len(chapters))
	for _, c := range chapters {
		out = append(out, c.Range())
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

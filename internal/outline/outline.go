// Package outline flattens a PDF's embedded table of contents into a flat
// list of non-overlapping chapter ranges.
package outline

import (
	"strings"

	"github.com/dgallion1/pdfsplit/internal/ranges"
)

// Entry is a raw table-of-contents entry as read from the document outline.
// Page is the 1-indexed page on which the entry's heading begins.
type Entry struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	Page  int    `json:"page"`
}

// Depth returns the number of distinct outline levels present
// (max - min + 1), or 0 for an empty outline. Callers use it to bound the
// depth passed to Resolve.
func Depth(entries []Entry) int {
	if len(entries) == 0 {
		return 0
	}
	minLevel, maxLevel := entries[0].Level, entries[0].Level
	for _, e := range entries[1:] {
		if e.Level < minLevel {
			minLevel = e.Level
		}
		if e.Level > maxLevel {
			maxLevel = e.Level
		}
	}
	return maxLevel - minLevel + 1
}

// Resolve flattens the outline into chapters at the requested depth.
//
// Entries deeper than minLevel+depth-1 are excluded up front, so depth
// control works by dropping deeper leaves rather than merging container
// ranges. Within the window, an entry immediately followed by a deeper entry
// is a container and is dropped; only leaf entries become chapter boundaries.
// Each leaf ends one page before the next leaf starts, and the last leaf runs
// to totalPages. Titles carry two-space indents per relative level for
// display hierarchy only.
func Resolve(entries []Entry, totalPages, depth int) []ranges.Chapter {
	if len(entries) == 0 {
		return nil
	}

	minLevel := entries[0].Level
	for _, e := range entries[1:] {
		if e.Level < minLevel {
			minLevel = e.Level
		}
	}
	maxLevel := minLevel + depth - 1

	var window []Entry
	for _, e := range entries {
		if e.Level >= minLevel && e.Level <= maxLevel {
			window = append(window, e)
		}
	}

	var leaves []Entry
	for i, e := range window {
		if i+1 < len(window) && window[i+1].Level > e.Level {
			// Container: the next entry is its child.
			continue
		}
		leaves = append(leaves, e)
	}

	var chapters []ranges.Chapter
	for i, leaf := range leaves {
		end := totalPages
		if i+1 < len(leaves) {
			end = leaves[i+1].Page - 1
		}
		if leaf.Page <= 0 || end < leaf.Page {
			continue
		}
		indent := strings.Repeat("  ", leaf.Level-minLevel)
		chapters = append(chapters, ranges.Chapter{
			Title:     indent + strings.TrimSpace(leaf.Title),
			StartPage: leaf.Page,
			EndPage:   end,
			Level:     leaf.Level,
		})
	}
	return chapters
}

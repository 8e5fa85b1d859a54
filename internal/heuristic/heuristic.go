// Package heuristic infers chapter boundaries from page text and font sizes.
// It is the fallback detection path for documents without an embedded table
// of contents.
package heuristic

import (
	"regexp"
	"strings"

	"github.com/dgallion1/pdfsplit/internal/ranges"
)

// Span is a run of text rendered with a single font size.
type Span struct {
	Text     string
	FontSize float64
}

// Line is one visual line of text on a page.
type Line struct {
	Spans []Span
}

// Block is a group of lines separated from its neighbors by vertical space.
type Block struct {
	Lines []Line
}

// Page carries the text blocks of one document page. Number is 1-indexed.
type Page struct {
	Number int
	Blocks []Block
}

const (
	// Only the first few blocks of a page are inspected; headings start
	// near the top.
	maxBlocksPerPage = 5

	// Lines at or above this font size that are short enough count as
	// headings even without a matching pattern.
	headingFontSize = 14
	maxHeadingLen   = 100

	maxTitleLen = 80
)

var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^chapter\s+\d+`),      // "Chapter 1", "Chapter 10"
	regexp.MustCompile(`^chapter\s+[ivxlc]+`), // "Chapter I", "Chapter IV"
	regexp.MustCompile(`^\d+\.\s+\w+`),        // "1. Introduction"
	regexp.MustCompile(`^part\s+\d+`),
	regexp.MustCompile(`^section\s+\d+`),
	regexp.MustCompile(`^unit\s+\d+`),
	regexp.MustCompile(`^module\s+\d+`),
}

type detection struct {
	title string
	page  int
}

// Detect scans pages for chapter headings and converts consecutive hits into
// chapters. At most one heading is recorded per page: the scan stops at the
// first line whose text matches a heading pattern or whose font size marks it
// as a heading. Each chapter ends one page before the next detection; the
// last runs to totalPages.
func Detect(pages []Page, totalPages int) []ranges.Chapter {
	var found []detection
	for _, page := range pages {
		if d, ok := findHeading(page); ok {
			found = append(found, d)
		}
	}

	var chapters []ranges.Chapter
	for i, d := range found {
		end := totalPages
		if i+1 < len(found) {
			end = found[i+1].page - 1
		}
		if end < d.page {
			continue
		}
		chapters = append(chapters, ranges.Chapter{
			Title:     d.title,
			StartPage: d.page,
			EndPage:   end,
			Level:     1,
		})
	}
	return chapters
}

// findHeading returns the first heading candidate on the page.
func findHeading(page Page) (detection, bool) {
	blocks := page.Blocks
	if len(blocks) > maxBlocksPerPage {
		blocks = blocks[:maxBlocksPerPage]
	}
	for _, block := range blocks {
		for _, line := range block.Lines {
			var sb strings.Builder
			maxFont := 0.0
			for _, span := range line.Spans {
				sb.WriteString(span.Text)
				if span.FontSize > maxFont {
					maxFont = span.FontSize
				}
			}
			text := strings.TrimSpace(sb.String())
			if len(text) < 3 {
				continue
			}
			if !isHeading(text, maxFont) {
				continue
			}
			if len(text) > maxTitleLen {
				text = text[:maxTitleLen]
			}
			return detection{title: text, page: page.Number}, true
		}
	}
	return detection{}, false
}

func isHeading(text string, maxFont float64) bool {
	lower := strings.ToLower(text)
	for _, p := range headingPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	// Large type near the top of a page is likely a heading.
	return maxFont >= headingFontSize && len(text) < maxHeadingLen
}

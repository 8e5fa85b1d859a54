package detect

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dgallion1/pdfsplit/internal/ranges"
)

var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// NormalizeResponse coerces a model's free-form answer into valid chapters.
//
// The JSON array is located anywhere in the text (models like to wrap it in
// prose or fences), decoded into untyped records, and each record is coerced
// into the chapter shape: missing or unparseable titles default to
// "Untitled", start defaults to 1 and end to totalPages, and both are clamped
// the same way the range parser clamps user input. The result is sorted by
// start page and then repaired so it covers [1, totalPages] without gaps or
// overlaps.
func NormalizeResponse(text string, totalPages int) ([]ranges.Chapter, error) {
	m := jsonArrayRe.FindString(text)
	if m == "" {
		return nil, fmt.Errorf("no JSON array in model response")
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(m), &items); err != nil {
		return nil, fmt.Errorf("invalid JSON in model response: %w", err)
	}

	var chapters []ranges.Chapter
	for _, item := range items {
		start := coerceInt(item["start_page"], 1)
		end := coerceInt(item["end_page"], totalPages)
		if start > totalPages {
			start = totalPages
		}
		if start < 1 {
			start = 1
		}
		if end > totalPages {
			end = totalPages
		}
		if end < start {
			end = start
		}
		chapters = append(chapters, ranges.Chapter{
			Title:     coerceString(item["title"], "Untitled"),
			StartPage: start,
			EndPage:   end,
			Level:     1,
		})
	}

	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].StartPage < chapters[j].StartPage
	})

	return fixRanges(chapters, totalPages), nil
}

// fixRanges repairs gaps and overlaps so the chapters cover [1, totalPages]
// exactly: the first chapter is pulled back to page 1, each later chapter
// starts right after its predecessor, and the last is extended to the final
// page. An empty input becomes a single "Full Document" chapter.
func fixRanges(chapters []ranges.Chapter, totalPages int) []ranges.Chapter {
	if len(chapters) == 0 {
		return []ranges.Chapter{{Title: "Full Document", StartPage: 1, EndPage: totalPages, Level: 1}}
	}

	var fixed []ranges.Chapter
	for _, ch := range chapters {
		start, end := ch.StartPage, ch.EndPage
		if len(fixed) > 0 {
			if prevEnd := fixed[len(fixed)-1].EndPage; start != prevEnd+1 {
				start = prevEnd + 1
			}
		} else if start > 1 {
			start = 1
		}
		if end < start {
			end = start
		}
		if start > totalPages {
			continue
		}
		if end > totalPages {
			end = totalPages
		}
		fixed = append(fixed, ranges.Chapter{
			Title:     ch.Title,
			StartPage: start,
			EndPage:   end,
			Level:     1,
		})
	}

	if len(fixed) > 0 && fixed[len(fixed)-1].EndPage < totalPages {
		fixed[len(fixed)-1].EndPage = totalPages
	}
	return fixed
}

func coerceInt(v any, fallback int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return fallback
}

func coerceString(v any, fallback string) string {
	if v == nil {
		return fallback
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if s == "" {
		return fallback
	}
	return s
}

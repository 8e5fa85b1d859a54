package ranges

import (
	"fmt"
	"sort"
)

// ValidMessage is the message Validate returns when no violation is found.
const ValidMessage = "Valid"

// Validate checks ranges against the document bounds. It reports the first
// violation found and never repairs anything; gap filling and re-editing are
// the caller's job. Touching ranges (end equals the next start) count as
// overlap and are rejected.
func Validate(rs []PageRange, totalPages int) (bool, string) {
	if len(rs) == 0 {
		return false, "No ranges specified"
	}
	for _, r := range rs {
		if r.Start < 1 {
			return false, fmt.Sprintf("Range %q has invalid start page: %d", r.Name, r.Start)
		}
		if r.End > totalPages {
			return false, fmt.Sprintf("Range %q exceeds total pages: %d > %d", r.Name, r.End, totalPages)
		}
		if r.Start > r.End {
			return false, fmt.Sprintf("Range %q has start > end: %d > %d", r.Name, r.Start, r.End)
		}
	}

	sorted := sortedByStart(rs)
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].End >= sorted[i+1].Start {
			return false, fmt.Sprintf("Ranges overlap: %q ends at %d, %q starts at %d",
				sorted[i].Name, sorted[i].End, sorted[i+1].Name, sorted[i+1].Start)
		}
	}
	return true, ValidMessage
}

// SuggestEqualSplits partitions [1, totalPages] into numParts contiguous
// ranges named "Part 1", "Part 2", and so on. numParts is clamped to
// [1, totalPages]. The remainder is front-loaded so the partition is exact:
// no gaps, no overlaps.
func SuggestEqualSplits(totalPages, numParts int) []PageRange {
	if totalPages < 1 {
		return nil
	}
	if numParts < 1 {
		numParts = 1
	}
	if numParts > totalPages {
		numParts = totalPages
	}

	perPart := totalPages / numParts
	remainder := totalPages % numParts

	out := make([]PageRange, 0, numParts)
	current := 1
	for i := 0; i < numParts; i++ {
		pages := perPart
		if i < remainder {
			pages++
		}
		end := current + pages - 1
		out = append(out, PageRange{Start: current, End: end, Name: fmt.Sprintf("Part %d", i+1)})
		current = end + 1
	}
	return out
}

// FillMissingPages inserts "Uncovered Pages" fillers wherever the sorted
// input leaves gaps, so the result covers [1, totalPages] exactly. An empty
// input yields a single "Full Document" range.
//
// Input ranges must be individually valid and overlap-free; run Validate
// first. Overlapping input is not repaired here.
func FillMissingPages(rs []PageRange, totalPages int) []PageRange {
	if len(rs) == 0 {
		return []PageRange{{Start: 1, End: totalPages, Name: "Full Document"}}
	}

	sorted := sortedByStart(rs)
	filled := make([]PageRange, 0, len(sorted)+2)
	current := 1
	for _, r := range sorted {
		if r.Start > current {
			filled = append(filled, filler(current, r.Start-1))
		}
		filled = append(filled, r)
		current = r.End + 1
	}
	if current <= totalPages {
		filled = append(filled, filler(current, totalPages))
	}
	return filled
}

func filler(start, end int) PageRange {
	return PageRange{
		Start: start,
		End:   end,
		Name:  fmt.Sprintf("Uncovered Pages %d-%d", start, end),
	}
}

func sortedByStart(rs []PageRange) []PageRange {
	out := make([]PageRange, len(rs))
	copy(out, rs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

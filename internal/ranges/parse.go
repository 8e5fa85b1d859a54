package ranges

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRangeString converts a comma-separated range spec into page ranges.
// Each expression is "start-end" or "start-end:name"; whitespace around any
// token is ignored. Unnamed expressions get "Part N" where N counts only the
// expressions that parsed. Start is clamped to [1, totalPages] and end to
// [start, totalPages], so an end below start is raised rather than rejected.
//
// Malformed expressions never abort the parse; they are skipped and returned
// in dropped so callers can surface a warning. An empty result is not an
// error; the caller decides whether zero ranges is actionable.
//
// Examples:
//
//	"1-10, 11-20, 21-30"      -> Part 1..Part 3
//	"1-10:Intro, 11-50:Main"  -> Intro, Main
func ParseRangeString(spec string, totalPages int) (parsed []PageRange, dropped []string) {
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		rangePart, name := part, ""
		if i := strings.Index(part, ":"); i >= 0 {
			rangePart = strings.TrimSpace(part[:i])
			name = strings.TrimSpace(part[i+1:])
		}

		start, end, ok := parseBounds(rangePart)
		if !ok {
			dropped = append(dropped, part)
			continue
		}

		start = clamp(start, 1, totalPages)
		end = clamp(end, start, totalPages)
		if name == "" {
			name = fmt.Sprintf("Part %d", len(parsed)+1)
		}
		parsed = append(parsed, PageRange{Start: start, End: end, Name: name})
	}
	return parsed, dropped
}

func parseBounds(s string) (start, end int, ok bool) {
	i := strings.Index(s, "-")
	if i < 0 {
		return 0, 0, false
	}
	start, err := strconv.Atoi(strings.TrimSpace(s[:i]))
	if err != nil {
		return 0, 0, false
	}
	end, err = strconv.Atoi(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

package detect

import (
	"reflect"
	"testing"

	"github.com/dgallion1/pdfsplit/internal/ranges"
)

func TestNormalizeResponse_CleanArray(t *testing.T) {
	text := `[
		{"title": "Introduction", "start_page": 1, "end_page": 10},
		{"title": "Methods", "start_page": 11, "end_page": 25}
	]`
	got, err := NormalizeResponse(text, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []ranges.Chapter{
		{Title: "Introduction", StartPage: 1, EndPage: 10, Level: 1},
		{Title: "Methods", StartPage: 11, EndPage: 25, Level: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNormalizeResponse_ArrayBuriedInProse(t *testing.T) {
	text := "Here are the chapters I found:\n" +
		`[{"title": "All", "start_page": 1, "end_page": 5}]` +
		"\nLet me know if you need anything else."
	got, err := NormalizeResponse(text, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "All" {
		t.Errorf("unexpected chapters: %v", got)
	}
}

func TestNormalizeResponse_NoArray(t *testing.T) {
	if _, err := NormalizeResponse("I could not identify any chapters.", 10); err == nil {
		t.Error("expected error when no JSON array present")
	}
}

func TestNormalizeResponse_InvalidJSON(t *testing.T) {
	if _, err := NormalizeResponse(`[{"title": "broken"`, 10); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestNormalizeResponse_CoercesStringPages(t *testing.T) {
	text := `[{"title": "A", "start_page": "1", "end_page": " 6 "}]`
	got, err := NormalizeResponse(text, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].StartPage != 1 || got[0].EndPage != 6 {
		t.Errorf("expected 1-6, got %v", got[0])
	}
}

func TestNormalizeResponse_MissingFieldsDefaulted(t *testing.T) {
	text := `[{}]`
	got, err := NormalizeResponse(text, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []ranges.Chapter{{Title: "Untitled", StartPage: 1, EndPage: 8, Level: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNormalizeResponse_ClampsOutOfBounds(t *testing.T) {
	text := `[{"title": "A", "start_page": -3, "end_page": 99}]`
	got, err := NormalizeResponse(text, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].StartPage != 1 || got[0].EndPage != 10 {
		t.Errorf("expected 1-10, got %v", got[0])
	}
}

func TestNormalizeResponse_RepairsGapsAndOverlaps(t *testing.T) {
	text := `[
		{"title": "B", "start_page": 12, "end_page": 20},
		{"title": "A", "start_page": 3, "end_page": 8}
	]`
	got, err := NormalizeResponse(text, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Sorted by start; A pulled back to page 1, the gap before B closed, B
	// extended to the last page.
	want := []ranges.Chapter{
		{Title: "A", StartPage: 1, EndPage: 8, Level: 1},
		{Title: "B", StartPage: 9, EndPage: 30, Level: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNormalizeResponse_OverlapAdvancesStart(t *testing.T) {
	text := `[
		{"title": "A", "start_page": 1, "end_page": 10},
		{"title": "B", "start_page": 5, "end_page": 15}
	]`
	got, err := NormalizeResponse(text, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []ranges.Chapter{
		{Title: "A", StartPage: 1, EndPage: 10, Level: 1},
		{Title: "B", StartPage: 11, EndPage: 15, Level: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNormalizeResponse_EmptyArrayBecomesFullDocument(t *testing.T) {
	got, err := NormalizeResponse("[]", 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []ranges.Chapter{{Title: "Full Document", StartPage: 1, EndPage: 40, Level: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestStripCodeBlock(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fenced json", "```json\n[1]\n```", "[1]"},
		{"plain fence", "```\n[1]\n```", "[1]"},
		{"no fence", "[1]", "[1]"},
		{"surrounding whitespace", "  ```json\n[1]\n```  ", "[1]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeBlock(tc.in); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCoerceInt(t *testing.T) {
	if got := coerceInt(float64(7), 1); got != 7 {
		t.Errorf("float64: expected 7, got %d", got)
	}
	if got := coerceInt("12", 1); got != 12 {
		t.Errorf("string: expected 12, got %d", got)
	}
	if got := coerceInt("twelve", 9); got != 9 {
		t.Errorf("bad string: expected fallback 9, got %d", got)
	}
	if got := coerceInt(nil, 4); got != 4 {
		t.Errorf("nil: expected fallback 4, got %d", got)
	}
}

package detect

import "fmt"

// BuildPrompt creates the chapter-detection prompt for a document's sampled
// text. The model is instructed to answer with a bare JSON array; the
// normalizer copes when it doesn't.
func BuildPrompt(sampleText string, totalPages int) string {
	return fmt.Sprintf(`Analyze this PDF text and identify chapter or section boundaries.
The PDF has %d total pages.

TEXT CONTENT (with page numbers):
%s

TASK:
1. Identify distinct chapters, sections, or major divisions
2. For each chapter, determine the start and end page numbers
3. If you can't clearly identify chapters, suggest logical divisions based on content

RESPOND WITH ONLY a JSON array in this exact format (no markdown, no explanation):
[
    {"title": "Chapter/Section Title", "start_page": 1, "end_page": 10},
    {"title": "Another Chapter", "start_page": 11, "end_page": 25}
]

RULES:
- Page numbers must be between 1 and %d
- Ranges should not overlap
- Ranges should cover all pages from 1 to %d
- Use descriptive titles based on the content
- Return at least 2 chapters/sections if the document is more than 10 pages
`, totalPages, sampleText, totalPages, totalPages)
}

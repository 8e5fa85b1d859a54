// Package archive packages split output documents into a ZIP and owns output
// filename hygiene.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// File is a named output document destined for the archive.
type File struct {
	Name string
	Data []byte
}

// Build writes the files into a deflated in-memory ZIP archive.
func Build(files []File) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.Name)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("create zip entry %s: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("write zip entry %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// SanitizeFilename replaces characters that are invalid in filenames, caps
// the length, and trims leading/trailing dots and spaces. An empty result
// falls back to "chapter".
func SanitizeFilename(name string) string {
	for _, c := range `<>:"/\|?*` {
		name = strings.ReplaceAll(name, string(c), "_")
	}
	if len(name) > 100 {
		name = name[:100]
	}
	name = strings.Trim(name, ". ")
	if name == "" {
		return "chapter"
	}
	return name
}

// PDFName sanitizes a chapter title into a .pdf filename.
func PDFName(title string) string {
	name := SanitizeFilename(title)
	if !strings.HasSuffix(name, ".pdf") {
		name += ".pdf"
	}
	return name
}

// NumberedTitle prefixes a title with a zero-padded sequence number so ZIP
// entries sort in document order. index is 1-based; total sets the padding
// width.
func NumberedTitle(index, total int, title string) string {
	digits := len(strconv.Itoa(total))
	return fmt.Sprintf("%0*d_%s", digits, index, title)
}

// OutputName derives the download ZIP name from the uploaded filename.
func OutputName(original string, now time.Time) string {
	base := original
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	return fmt.Sprintf("%s_split_%s.zip", base, now.Format("20060102_150405"))
}

// FormatFileSize renders a byte count in human-readable units.
func FormatFileSize(sizeBytes int64) string {
	size := float64(sizeBytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}

package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"
)

func TestBuildRoundTrip(t *testing.T) {
	files := []File{
		{Name: "01_Introduction.pdf", Data: []byte("first")},
		{Name: "02_Methods.pdf", Data: []byte("second")},
	}
	data, err := Build(files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(zr.File))
	}
	for i, f := range files {
		entry := zr.File[i]
		if entry.Name != f.Name {
			t.Errorf("entry %d: expected name %q, got %q", i, f.Name, entry.Name)
		}
		rc, err := entry.Open()
		if err != nil {
			t.Fatalf("opening entry %s: %v", entry.Name, err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading entry %s: %v", entry.Name, err)
		}
		if !bytes.Equal(got, f.Data) {
			t.Errorf("entry %s: expected %q, got %q", entry.Name, f.Data, got)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	data, err := Build(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	if len(zr.File) != 0 {
		t.Errorf("expected empty archive, got %d entries", len(zr.File))
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean title", "Introduction", "Introduction"},
		{"invalid characters", `a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"trailing dots and spaces", "Chapter 1. ", "Chapter 1"},
		{"leading dots", "..hidden", "hidden"},
		{"only invalid input", " .. ", "chapter"},
		{"empty", "", "chapter"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeFilename(tc.in); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSanitizeFilenameCapsLength(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("a", 120))
	if len(got) != 100 {
		t.Errorf("expected 100 chars, got %d", len(got))
	}
}

func TestPDFName(t *testing.T) {
	if got := PDFName("Chapter 1"); got != "Chapter 1.pdf" {
		t.Errorf("expected Chapter 1.pdf, got %q", got)
	}
	if got := PDFName("notes.pdf"); got != "notes.pdf" {
		t.Errorf("expected notes.pdf, got %q", got)
	}
	if got := PDFName("a/b"); got != "a_b.pdf" {
		t.Errorf("expected a_b.pdf, got %q", got)
	}
}

func TestNumberedTitle(t *testing.T) {
	tests := []struct {
		index, total int
		title        string
		want         string
	}{
		{1, 9, "Intro", "1_Intro"},
		{2, 10, "Intro", "02_Intro"},
		{7, 120, "Intro", "007_Intro"},
	}
	for _, tc := range tests {
		if got := NumberedTitle(tc.index, tc.total, tc.title); got != tc.want {
			t.Errorf("NumberedTitle(%d, %d, %q): expected %q, got %q",
				tc.index, tc.total, tc.title, tc.want, got)
		}
	}
}

func TestOutputName(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 30, 5, 0, time.UTC)
	if got := OutputName("book.pdf", now); got != "book_split_20240315_093005.zip" {
		t.Errorf("unexpected name: %q", got)
	}
	if got := OutputName("no-extension", now); got != "no-extension_split_20240315_093005.zip" {
		t.Errorf("unexpected name: %q", got)
	}
	if got := OutputName("two.dots.pdf", now); got != "two.dots_split_20240315_093005.zip" {
		t.Errorf("unexpected name: %q", got)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0.0 B"},
		{512, "512.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
		{2 * 1024 * 1024 * 1024 * 1024, "2.0 TB"},
	}
	for _, tc := range tests {
		if got := FormatFileSize(tc.size); got != tc.want {
			t.Errorf("FormatFileSize(%d): expected %q, got %q", tc.size, tc.want, got)
		}
	}
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/pdfsplit/internal/archive"
	"github.com/dgallion1/pdfsplit/internal/config"
	"github.com/dgallion1/pdfsplit/internal/detect"
	"github.com/dgallion1/pdfsplit/internal/heuristic"
	"github.com/dgallion1/pdfsplit/internal/outline"
	"github.com/dgallion1/pdfsplit/internal/pdfdoc"
	"github.com/dgallion1/pdfsplit/internal/ranges"
)

// Worker processes a single split job end to end.
type Worker struct {
	gemini *detect.GeminiClient
	log    *slog.Logger
	cfg    config.Config
}

func NewWorker(gemini *detect.GeminiClient, log *slog.Logger, cfg config.Config) *Worker {
	return &Worker{
		gemini: gemini,
		log:    log,
		cfg:    cfg,
	}
}

// Process runs the full split pipeline for a job: open the document, derive
// ranges per the requested mode, reconcile them against the page count,
// extract each range, and package the results into a ZIP.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename, "mode", job.Options.Mode)

	// Phase 1: Open document.
	job.SetStatus(StatusInspecting, "opening document")
	doc, err := pdfdoc.Open(job.FileData(), job.Filename)
	if err != nil {
		log.Error("open failed", "error", err)
		job.AddError(fmt.Sprintf("open: %s", err))
		job.SetStatus(StatusFailed, "inspecting")
		return
	}
	totalPages := doc.PageCount()
	job.SetTotalPages(totalPages)
	if totalPages == 0 {
		job.AddError("document has no pages")
		job.SetStatus(StatusFailed, "inspecting")
		return
	}

	// Phase 2: Derive ranges.
	job.SetStatus(StatusDetecting, "deriving ranges")
	prs, err := w.deriveRanges(ctx, job, doc, totalPages)
	if err != nil {
		log.Error("range derivation failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "detecting")
		return
	}
	if job.Options.FillGaps {
		prs = ranges.FillMissingPages(prs, totalPages)
	}
	if ok, msg := ranges.Validate(prs, totalPages); !ok {
		log.Error("invalid ranges", "message", msg)
		job.AddError("invalid ranges: " + msg)
		job.SetStatus(StatusFailed, "detecting")
		return
	}
	job.SetTotalRanges(len(prs))
	log.Info("ranges derived", "count", len(prs))

	// Phase 3: Extract each range.
	job.SetStatus(StatusSplitting, "extracting pages")
	files := make([]archive.File, 0, len(prs))
	hadErrors := false
	for i, r := range prs {
		data, err := doc.ExtractRange(r.Start, r.End)
		if err != nil {
			log.Error("extraction failed", "range", r.Name, "error", err)
			job.AddError(fmt.Sprintf("extract %d-%d: %s", r.Start, r.End, err))
			hadErrors = true
			continue
		}
		title := strings.TrimSpace(r.Name)
		if job.Options.Numbering {
			title = archive.NumberedTitle(i+1, len(prs), title)
		}
		files = append(files, archive.File{Name: archive.PDFName(title), Data: data})
		job.IncrRangesSplit()
	}
	if len(files) == 0 {
		job.SetStatus(StatusFailed, "splitting")
		return
	}

	// Phase 4: Package.
	job.SetStatus(StatusPackaging, "building archive")
	zipBytes, err := archive.Build(files)
	if err != nil {
		log.Error("packaging failed", "error", err)
		job.AddError(fmt.Sprintf("zip: %s", err))
		job.SetStatus(StatusFailed, "packaging")
		return
	}
	job.SetResult(archive.OutputName(job.Filename, time.Now()), zipBytes)

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("split complete", "ranges", len(files), "zip_bytes", len(zipBytes))
}

// deriveRanges produces the candidate ranges for the job's mode. The result
// still passes through gap filling and validation before any splitting.
func (w *Worker) deriveRanges(ctx context.Context, job *Job, doc *pdfdoc.Document, totalPages int) ([]ranges.PageRange, error) {
	opts := job.Options
	switch opts.Mode {
	case "ranges":
		parsed, dropped := ranges.ParseRangeString(opts.RangeSpec, totalPages)
		for _, d := range dropped {
			job.AddWarning("skipped range expression: " + d)
		}
		if len(parsed) == 0 {
			return nil, fmt.Errorf("no usable range expressions in %q", opts.RangeSpec)
		}
		return parsed, nil

	case "equal":
		return ranges.SuggestEqualSplits(totalPages, opts.Parts), nil

	case "toc":
		entries := doc.Outline()
		if len(entries) == 0 {
			return nil, fmt.Errorf("document has no table of contents")
		}
		chapters := outline.Resolve(entries, totalPages, boundedDepth(opts.TOCDepth, entries))
		if len(chapters) == 0 {
			return nil, fmt.Errorf("table of contents yielded no chapters")
		}
		return ranges.FromChapters(chapters), nil

	case "heuristic":
		pages, err := doc.TextPages()
		if err != nil {
			return nil, fmt.Errorf("text extraction: %w", err)
		}
		chapters := heuristic.Detect(pages, totalPages)
		if len(chapters) == 0 {
			return nil, fmt.Errorf("no chapter headings detected")
		}
		return ranges.FromChapters(chapters), nil

	case "ai":
		if w.gemini == nil {
			return nil, fmt.Errorf("ai detection is not configured")
		}
		chapters, err := w.detectWithRetry(ctx, doc, totalPages)
		if err != nil {
			return nil, fmt.Errorf("ai detection: %w", err)
		}
		return ranges.FromChapters(chapters), nil

	case "", "auto":
		return w.autoRanges(job, doc, totalPages), nil

	default:
		return nil, fmt.Errorf("unknown mode: %q", opts.Mode)
	}
}

// autoRanges prefers the outline, falls back to the text heuristic, and
// covers the whole document as one range when neither finds anything.
func (w *Worker) autoRanges(job *Job, doc *pdfdoc.Document, totalPages int) []ranges.PageRange {
	entries := doc.Outline()
	chapters := outline.Resolve(entries, totalPages, boundedDepth(job.Options.TOCDepth, entries))
	if len(chapters) == 0 {
		if pages, err := doc.TextPages(); err == nil {
			chapters = heuristic.Detect(pages, totalPages)
		}
	}
	if len(chapters) == 0 {
		job.AddWarning("no chapters detected; splitting as a single document")
		return ranges.FillMissingPages(nil, totalPages)
	}
	return ranges.FromChapters(chapters)
}

func (w *Worker) detectWithRetry(ctx context.Context, doc *pdfdoc.Document, totalPages int) ([]ranges.Chapter, error) {
	sample := doc.SampleText(w.cfg.AISamplePages)
	if sample == "" {
		return nil, fmt.Errorf("no extractable text to analyze")
	}

	var chapters []ranges.Chapter
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		chapters, lastErr = w.gemini.DetectChapters(ctx, sample, totalPages)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		w.log.Warn("retryable detection error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return chapters, lastErr
}

// boundedDepth clamps the requested outline depth to what the document
// actually has, defaulting to the full depth when unset.
func boundedDepth(requested int, entries []outline.Entry) int {
	depth := outline.Depth(entries)
	if requested >= 1 && requested < depth {
		return requested
	}
	if depth < 1 {
		return 1
	}
	return depth
}

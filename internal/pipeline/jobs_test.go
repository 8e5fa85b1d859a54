package pipeline

import (
	"testing"
	"time"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusInspecting, "opening document"},
		{StatusDetecting, "deriving ranges"},
		{StatusSplitting, "extracting pages"},
		{StatusPackaging, "building archive"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_SetStatusFailed(t *testing.T) {
	job := &Job{
		ID:        "test-fail",
		Status:    StatusSplitting,
		UpdatedAt: time.Now(),
	}
	job.SetStatus(StatusFailed, "split error")
	if job.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, job.Status)
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("range 3 failed")
	job.AddError("range 7 failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "range 3 failed" {
		t.Errorf("expected first error %q, got %q", "range 3 failed", snap.Progress.Errors[0])
	}
}

func TestJob_AddWarning(t *testing.T) {
	job := &Job{ID: "warn-test", UpdatedAt: time.Now()}
	job.AddWarning("dropped range expression \"abc\"")

	snap := job.Snapshot()
	if len(snap.Progress.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(snap.Progress.Warnings))
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected no errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJob_IncrRangesSplit(t *testing.T) {
	job := &Job{ID: "incr-test", UpdatedAt: time.Now()}
	job.IncrRangesSplit()
	job.IncrRangesSplit()
	job.IncrRangesSplit()

	snap := job.Snapshot()
	if snap.Progress.RangesSplit != 3 {
		t.Errorf("expected 3 ranges split, got %d", snap.Progress.RangesSplit)
	}
}

func TestJob_SetTotals(t *testing.T) {
	job := &Job{ID: "total-test", UpdatedAt: time.Now()}
	job.SetTotalPages(120)
	job.SetTotalRanges(6)

	snap := job.Snapshot()
	if snap.Progress.TotalPages != 120 {
		t.Errorf("expected 120 total pages, got %d", snap.Progress.TotalPages)
	}
	if snap.Progress.TotalRanges != 6 {
		t.Errorf("expected 6 total ranges, got %d", snap.Progress.TotalRanges)
	}
}

func TestJob_FileData(t *testing.T) {
	job := &Job{ID: "data-test"}
	data := []byte("file content here")
	job.SetFileData(data)
	got := job.FileData()
	if string(got) != string(data) {
		t.Errorf("expected file data %q, got %q", data, got)
	}
}

func TestJob_ResultBeforeSet(t *testing.T) {
	job := &Job{ID: "result-test"}
	if _, _, ok := job.Result(); ok {
		t.Error("expected ok=false before SetResult")
	}
}

func TestJob_SetResultDropsUpload(t *testing.T) {
	job := &Job{ID: "result-test", UpdatedAt: time.Now()}
	job.SetFileData([]byte("upload bytes"))
	job.SetResult("book_split.zip", []byte("zip bytes"))

	name, data, ok := job.Result()
	if !ok {
		t.Fatal("expected ok=true after SetResult")
	}
	if name != "book_split.zip" {
		t.Errorf("expected result name %q, got %q", "book_split.zip", name)
	}
	if string(data) != "zip bytes" {
		t.Errorf("expected result data %q, got %q", "zip bytes", data)
	}
	if job.FileData() != nil {
		t.Error("expected upload bytes to be released after SetResult")
	}

	snap := job.Snapshot()
	if snap.Progress.OutputBytes != int64(len(data)) {
		t.Errorf("expected output bytes %d, got %d", len(data), snap.Progress.OutputBytes)
	}
}

func TestJob_SnapshotSlicesNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors and warnings slices.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if snap.Progress.Warnings == nil {
		t.Error("expected non-nil warnings slice in snapshot")
	}
}

func TestJob_SnapshotCarriesMode(t *testing.T) {
	job := &Job{
		ID:        "mode-test",
		Options:   SplitOptions{Mode: "toc"},
		UpdatedAt: time.Now(),
	}
	if snap := job.Snapshot(); snap.Mode != "toc" {
		t.Errorf("expected mode %q, got %q", "toc", snap.Mode)
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}

package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a split job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusInspecting JobStatus = "inspecting"
	StatusDetecting  JobStatus = "detecting"
	StatusSplitting  JobStatus = "splitting"
	StatusPackaging  JobStatus = "packaging"
	StatusCompleted  JobStatus = "completed"
	StatusPartial    JobStatus = "partial"
	StatusFailed     JobStatus = "failed"
)

// SplitOptions carries the caller's choice of range derivation.
type SplitOptions struct {
	// Mode is one of "auto", "toc", "heuristic", "ranges", "equal", "ai".
	Mode string

	// RangeSpec is the free-text range string for mode "ranges".
	RangeSpec string

	// Parts is the part count for mode "equal".
	Parts int

	// TOCDepth bounds outline resolution for modes "toc" and "auto".
	TOCDepth int

	// FillGaps inserts "Uncovered Pages" ranges before splitting.
	FillGaps bool

	// Numbering prefixes output names with zero-padded sequence numbers.
	Numbering bool
}

// Job tracks the state of a single split request.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Options SplitOptions `json:"-"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData   []byte
	resultName string
	resultData []byte
	errors     []string
	warnings   []string
}

// Progress tracks split progress.
type Progress struct {
	TotalPages  int      `json:"total_pages"`
	TotalRanges int      `json:"total_ranges"`
	RangesSplit int      `json:"ranges_split"`
	OutputBytes int64    `json:"output_bytes"`
	Warnings    []string `json:"warnings"`
	Errors      []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs, releasing their result bytes with them.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// AddWarning records a non-fatal problem, like a dropped range expression.
func (j *Job) AddWarning(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.warnings = append(j.warnings, msg)
	j.Progress.Warnings = j.warnings
	j.UpdatedAt = time.Now()
}

// SetTotalPages records the document page count.
func (j *Job) SetTotalPages(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalPages = n
	j.UpdatedAt = time.Now()
}

// SetTotalRanges records how many ranges will be split.
func (j *Job) SetTotalRanges(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalRanges = n
	j.UpdatedAt = time.Now()
}

// IncrRangesSplit atomically increments the split counter.
func (j *Job) IncrRangesSplit() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.RangesSplit++
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw uploaded bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw uploaded bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetResult stores the finished archive and drops the upload bytes, which are
// no longer needed.
func (j *Job) SetResult(name string, data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.resultName = name
	j.resultData = data
	j.Progress.OutputBytes = int64(len(data))
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Result returns the archive name and bytes, or ok=false if not yet set.
func (j *Job) Result() (name string, data []byte, ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.resultData == nil {
		return "", nil, false
	}
	return j.resultName, j.resultData, true
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	DocID     string    `json:"doc_id"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filename  string    `json:"filename"`
	Mode      string    `json:"mode"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	warns := j.Progress.Warnings
	if warns == nil {
		warns = []string{}
	}
	return JobSnapshot{
		ID:        j.ID,
		DocID:     j.DocID,
		Status:    j.Status,
		Phase:     j.Phase,
		Filename:  j.Filename,
		Mode:      j.Options.Mode,
		CreatedAt: j.CreatedAt,
		Progress: Progress{
			TotalPages:  j.Progress.TotalPages,
			TotalRanges: j.Progress.TotalRanges,
			RangesSplit: j.Progress.RangesSplit,
			OutputBytes: j.Progress.OutputBytes,
			Warnings:    warns,
			Errors:      errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

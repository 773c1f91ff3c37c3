// Package jobs runs document summaries asynchronously on a worker pool and
// keeps their results in memory until they expire.
package jobs

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/docsum/internal/summarize"
)

// JobStatus represents the state of a summarization job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusParsing     JobStatus = "parsing"
	StatusSummarizing JobStatus = "summarizing"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
	StatusReused      JobStatus = "reused"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusReused
}

// Result is the outcome of a finished job.
type Result struct {
	Sentences []string         `json:"sentences"`
	Report    summarize.Report `json:"report"`
	Warning   string           `json:"warning,omitempty"`
}

// Job tracks the state of a single document summary.
type Job struct {
	mu sync.Mutex

	ID            string
	Filename      string
	Title         string
	SentenceCount int

	Status     JobStatus
	Phase      string
	ReusedFrom string

	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Internal: not serialized.
	fileData []byte
	result   *Result
	errors   []string
}

// NewJob creates a queued job for an uploaded file.
func NewJob(filename string, data []byte, sentences int) *Job {
	if sentences <= 0 {
		sentences = summarize.DefaultSentenceCount
	}
	now := time.Now()
	return &Job{
		ID:            uuid.NewString(),
		Filename:      filename,
		SentenceCount: sentences,
		Status:        StatusQueued,
		Phase:         "queued",
		CreatedAt:     now,
		UpdatedAt:     now,
		fileData:      data,
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

// Fail records err and marks the job failed during phase.
func (j *Job) Fail(phase string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err.Error())
	j.Status = StatusFailed
	j.Phase = phase
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Complete stores the result and marks the job completed.
func (j *Job) Complete(res Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = &res
	j.Status = StatusCompleted
	j.Phase = "done"
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Reuse copies the result of an earlier job with the same content.
func (j *Job) Reuse(prior *Job) {
	res, ok := prior.Result()
	if !ok {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = &res
	j.ReusedFrom = prior.ID
	j.Status = StatusReused
	j.Phase = "done"
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// SetDocument records what parsing learned about the file.
func (j *Job) SetDocument(title, contentHash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Title = title
	j.ContentHash = contentHash
	j.UpdatedAt = time.Now()
}

// FileData returns the raw file bytes; nil once the job has finished.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// Result returns a copy of the result of a completed or reused job.
func (j *Job) Result() (Result, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.result == nil {
		return Result{}, false
	}
	res := *j.result
	res.Sentences = append([]string(nil), j.result.Sentences...)
	res.Report.Sentences = append([]string(nil), j.result.Report.Sentences...)
	return res, true
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// matches reports whether j finished with a result for hash and n sentences.
func (j *Job) matches(hash string, n int) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result != nil && j.ContentHash == hash && j.SentenceCount == n
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID            string    `json:"job_id"`
	Status        JobStatus `json:"status"`
	Phase         string    `json:"phase"`
	Filename      string    `json:"filename"`
	Title         string    `json:"title"`
	SentenceCount int       `json:"sentence_count"`
	ContentHash   string    `json:"content_hash,omitempty"`
	ReusedFrom    string    `json:"reused_from,omitempty"`
	Result        *Result   `json:"result,omitempty"`
	Errors        []string  `json:"errors"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	res, ok := j.Result()

	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.errors...)
	snap := JobSnapshot{
		ID:            j.ID,
		Status:        j.Status,
		Phase:         j.Phase,
		Filename:      j.Filename,
		Title:         j.Title,
		SentenceCount: j.SentenceCount,
		ContentHash:   j.ContentHash,
		ReusedFrom:    j.ReusedFrom,
		Errors:        errs,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
	if ok {
		snap.Result = &res
	}
	return snap
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

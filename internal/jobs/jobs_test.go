package jobs

import (
	"errors"
	"testing"
	"time"

	"github.com/dgallion1/docsum/internal/summarize"
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
	if ContentHashHex([]byte("aaa")) == ContentHashHex([]byte("bbb")) {
		t.Error("expected different hashes for different inputs")
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("notes.txt", []byte("data"), 0)
	if job.ID == "" {
		t.Fatal("expected generated ID")
	}
	if len(job.ID) != 36 {
		t.Errorf("expected uuid-formatted ID, got %q", job.ID)
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if job.SentenceCount != summarize.DefaultSentenceCount {
		t.Errorf("expected default sentence count, got %d", job.SentenceCount)
	}
	if string(job.FileData()) != "data" {
		t.Errorf("expected file data kept, got %q", job.FileData())
	}
	if NewJob("a.txt", nil, 1).ID == job.ID {
		t.Error("expected unique IDs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("doc.md", nil, 3)

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing document"},
		{StatusSummarizing, "summarizing"},
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

func TestJobStatus_Done(t *testing.T) {
	for status, want := range map[JobStatus]bool{
		StatusQueued:      false,
		StatusParsing:     false,
		StatusSummarizing: false,
		StatusCompleted:   true,
		StatusFailed:      true,
		StatusReused:      true,
	} {
		if got := status.Done(); got != want {
			t.Errorf("%s.Done() = %v, want %v", status, got, want)
		}
	}
}

func TestJob_Fail(t *testing.T) {
	job := NewJob("doc.pdf", []byte("pdf"), 3)
	job.Fail("parsing", errors.New("bad header"))
	job.Fail("parsing", errors.New("still bad"))

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "parsing" {
		t.Errorf("expected failed/parsing, got %s/%s", snap.Status, snap.Phase)
	}
	if len(snap.Errors) != 2 || snap.Errors[0] != "bad header" {
		t.Errorf("unexpected errors %q", snap.Errors)
	}
	if job.FileData() != nil {
		t.Error("expected file data released")
	}
	if snap.Result != nil {
		t.Error("expected no result")
	}
}

func TestJob_CompleteAndSnapshot(t *testing.T) {
	job := NewJob("doc.txt", []byte("x"), 2)
	job.Complete(Result{Sentences: []string{"One.", "Two."}, Warning: "short"})

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", snap.Status)
	}
	if snap.Result == nil || len(snap.Result.Sentences) != 2 {
		t.Fatalf("expected result with 2 sentences, got %+v", snap.Result)
	}

	// Snapshots are copies.
	snap.Result.Sentences[0] = "changed"
	again, _ := job.Result()
	if again.Sentences[0] != "One." {
		t.Error("expected snapshot mutation not to leak into the job")
	}
}

func TestJob_Reuse(t *testing.T) {
	prior := NewJob("a.txt", nil, 3)
	prior.Complete(Result{Sentences: []string{"Same."}})

	job := NewJob("b.txt", []byte("dup"), 3)
	job.Reuse(prior)

	snap := job.Snapshot()
	if snap.Status != StatusReused {
		t.Errorf("expected reused, got %s", snap.Status)
	}
	if snap.ReusedFrom != prior.ID {
		t.Errorf("expected reused_from %q, got %q", prior.ID, snap.ReusedFrom)
	}
	if snap.Result == nil || snap.Result.Sentences[0] != "Same." {
		t.Errorf("expected copied result, got %+v", snap.Result)
	}
}

func TestJob_ReuseWithoutResultIsNoop(t *testing.T) {
	prior := NewJob("a.txt", nil, 3)
	job := NewJob("b.txt", nil, 3)
	job.Reuse(prior)
	if job.Status != StatusQueued {
		t.Errorf("expected status unchanged, got %s", job.Status)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	snap := NewJob("a.txt", nil, 3).Snapshot()
	if snap.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
}

package jobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docsum/internal/document"
	"github.com/dgallion1/docsum/internal/summarize"
)

// ErrNoContent is recorded when a file parses but holds no text.
var ErrNoContent = errors.New("no extractable content")

// Worker processes a single document job.
type Worker struct {
	pipeline *summarize.Pipeline
	store    *Store
	opts     document.Options
	minWords int
	log      *slog.Logger
}

// NewWorker builds a worker. A nil store disables result reuse.
func NewWorker(p *summarize.Pipeline, store *Store, opts document.Options, minWords int, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Worker{
		pipeline: p,
		store:    store,
		opts:     opts,
		minWords: minWords,
		log:      log,
	}
}

// Process parses the job's file and summarizes its text.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := document.ForFile(job.Filename, w.opts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.Fail("parsing", err)
		return
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.Fail("parsing", fmt.Errorf("parse: %w", err))
		return
	}

	text := doc.Text()
	if text == "" {
		log.Warn("document has no text")
		job.Fail("parsing", ErrNoContent)
		return
	}
	hash := ContentHashHex([]byte(text))
	job.SetDocument(doc.Title, hash)

	// Phase 1.5: Reuse an identical earlier summary.
	if w.store != nil {
		if prior := w.store.FindResult(hash, job.SentenceCount, job.ID); prior != nil {
			log.Info("identical document already summarized", "reused_from", prior.ID)
			job.Reuse(prior)
			return
		}
	}

	// Phase 2: Summarize
	job.SetStatus(StatusSummarizing, "summarizing")
	rep := w.pipeline.Run(ctx, text, job.SentenceCount)
	if err := ctx.Err(); err != nil {
		log.Warn("summary canceled", "error", err)
		job.Fail("summarizing", err)
		return
	}

	log.Info("summary complete",
		"path", rep.Path,
		"chunks", rep.Chunks,
		"calls", rep.Calls,
		"fallbacks", rep.Fallbacks,
		"duration_ms", rep.DurationMs,
	)
	job.Complete(Result{
		Sentences: rep.Sentences,
		Report:    rep,
		Warning:   summarize.ShortInputWarning(rep.OriginalWords, w.minWords),
	})
}

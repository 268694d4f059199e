// Package pipeline runs extraction, normalization and summarization for one
// user request.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"doc-summarizer/internal/document"
	"doc-summarizer/internal/extract"
	"doc-summarizer/internal/llm"
	"doc-summarizer/internal/metrics"
	"doc-summarizer/internal/normalizer"
	"doc-summarizer/internal/uploads"
)

var (
	// ErrNoInput means neither a file nor text was provided.
	ErrNoInput = errors.New("please upload a file or enter text")
	// ErrNoText means the input produced no text to summarize.
	ErrNoText = errors.New("no text could be extracted from the input")
	// ErrUnsupportedFile means the upload extension is not accepted.
	ErrUnsupportedFile = errors.New("unsupported file type (only .txt and .docx allowed)")
)

// Runner wires the pipeline stages together.
type Runner struct {
	LLM     llm.Client
	Uploads uploads.Store
	Log     *slog.Logger
	Metrics *metrics.Metrics
}

// Run processes in and returns the document. On error the document holds
// every stage that completed, so callers can still show partial results.
func (r *Runner) Run(ctx context.Context, in Input) (document.Document, error) {
	doc := document.New()
	log := r.Log.With("document_id", doc.ID, "source", in.Source.String())

	doc, err := r.run(ctx, log, doc, in)
	r.Metrics.ObservePipeline(in.Source.String(), outcome(err))
	if err != nil {
		log.Warn("pipeline stopped", "err", err)
		return doc, err
	}
	log.Info("document summarized",
		"media_type", doc.MediaType.String(),
		"text_len", len(doc.Text),
		"normalized_len", len(doc.Normalized),
	)
	return doc, nil
}

func (r *Runner) run(ctx context.Context, log *slog.Logger, doc document.Document, in Input) (document.Document, error) {
	switch in.Source {
	case SourceUpload:
		up := in.Upload
		if !document.SupportedFilename(up.Filename) {
			return doc, ErrUnsupportedFile
		}
		doc.Filename = up.Filename
		doc.Raw = up.Data
		doc.MediaType = document.ParseMediaType(up.ContentType, up.Filename)
		r.persist(ctx, log, up)

		text, err := extract.Extract(doc.Raw, doc.MediaType)
		if err != nil {
			return doc, fmt.Errorf("extract %s: %w", up.Filename, err)
		}
		doc.Text = text
	case SourceText:
		doc.Raw = []byte(in.Text)
		doc.MediaType = document.MediaTypePlainText
		doc.Text = in.Text
	default:
		return doc, ErrNoInput
	}

	if doc.Text == "" {
		return doc, ErrNoText
	}
	doc.Normalized = normalizer.Normalize(doc.Text)

	start := time.Now()
	summary, err := r.LLM.Summarize(ctx, doc.Normalized)
	r.Metrics.ObserveLLM(time.Since(start))
	if err != nil {
		return doc, fmt.Errorf("summarize: %w", err)
	}
	doc.Summary = summary
	return doc, nil
}

// persist stores the upload before extraction. Failures are logged only.
func (r *Runner) persist(ctx context.Context, log *slog.Logger, up Upload) {
	if r.Uploads == nil {
		return
	}
	loc, err := r.Uploads.Save(ctx, up.Filename, up.ContentType, up.Data)
	if err != nil {
		log.Warn("failed to persist upload", "filename", up.Filename, "err", err)
		return
	}
	log.Debug("upload persisted", "location", loc, "bytes", len(up.Data))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoInput):
		return "no_input"
	case errors.Is(err, ErrNoText):
		return "no_text"
	case errors.Is(err, ErrUnsupportedFile):
		return "unsupported_file"
	case errors.Is(err, extract.ErrDecode):
		return "decode_error"
	case errors.Is(err, extract.ErrParse):
		return "parse_error"
	case errors.Is(err, llm.ErrNotConfigured):
		return "config_error"
	default:
		return "llm_error"
	}
}

package main

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"doc-summarizer/internal/app"
	"doc-summarizer/internal/document"
	"doc-summarizer/internal/extract"
	"doc-summarizer/internal/httputil"
	"doc-summarizer/internal/llm"
	"doc-summarizer/internal/pipeline"
)

// Multipart parts beyond this size spill to temporary files.
const multipartMemory = 32 << 20

//go:embed templates/index.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type pageData struct {
	Accept       string
	Typed        string
	Warning      string
	Error        string
	Doc          *document.Document
	SummaryError string
}

type summarizeRequest struct {
	Text string `json:"text" validate:"required"`
}

type summarizeResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename,omitempty"`
	MediaType  string `json:"media_type"`
	Original   string `json:"original"`
	Cleaned    string `json:"cleaned"`
	Summary    string `json:"summary"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Log.Info("summarizer listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.ShutdownTimeout)
		defer cancel()
		deps.Log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log, deps.Metrics.Middleware)

	r.Get("/", indexHandler(deps))
	r.Post("/", submitHandler(deps))
	r.Post("/api/summarize", apiSummarizeHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	return r
}

func indexHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(deps.Log, w, http.StatusOK, newPage())
	}
}

// submitHandler serves the HTML form post. No-input cases are warnings; when
// summarization fails the original and cleaned panels are still shown.
func submitHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := newPage()

		in, err := readInput(w, r, deps.Config.MaxUploadSize)
		if err != nil {
			status, msg := describeReadError(err)
			deps.Log.Warn("failed to read form", "err", err)
			page.Error = msg
			render(deps.Log, w, status, page)
			return
		}
		page.Typed = r.FormValue("text")

		doc, err := deps.Pipeline.Run(r.Context(), in)
		if err == nil {
			page.Doc = &doc
			render(deps.Log, w, http.StatusOK, page)
			return
		}

		status, msg := describe(err)
		switch {
		case isWarning(err):
			page.Warning = msg
			status = http.StatusOK
		case doc.Text != "":
			page.Doc = &doc
			page.SummaryError = msg
		default:
			page.Error = msg
		}
		render(deps.Log, w, status, page)
	}
}

// apiSummarizeHandler accepts a JSON body {"text": ...} or the same
// multipart form as the HTML page and answers with JSON.
func apiSummarizeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in pipeline.Input
		if isJSON(r) {
			var req summarizeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
				return
			}
			if err := httputil.Validator.Struct(&req); err != nil {
				httputil.ValidationError(deps.Log, w, err)
				return
			}
			in = pipeline.SelectInput(nil, req.Text)
		} else {
			var err error
			in, err = readInput(w, r, deps.Config.MaxUploadSize)
			if err != nil {
				status, msg := describeReadError(err)
				httputil.Fail(deps.Log, w, msg, err, status)
				return
			}
		}

		doc, err := deps.Pipeline.Run(r.Context(), in)
		if err != nil {
			status, msg := describe(err)
			if isWarning(err) {
				status = http.StatusBadRequest
			}
			httputil.Fail(deps.Log.With("document_id", doc.ID), w, msg, err, status)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, summarizeResponse{
			DocumentID: doc.ID.String(),
			Filename:   doc.Filename,
			MediaType:  doc.MediaType.String(),
			Original:   doc.Text,
			Cleaned:    doc.Normalized,
			Summary:    doc.Summary,
		})
	}
}

// readInput parses the form and picks the input. A missing file part is not
// an error.
func readInput(w http.ResponseWriter, r *http.Request, maxSize int64) (pipeline.Input, error) {
	if maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return pipeline.Input{}, err
	}

	var upload *pipeline.Upload
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return pipeline.Input{}, err
		}
		upload = &pipeline.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return pipeline.Input{}, err
	}
	return pipeline.SelectInput(upload, r.FormValue("text")), nil
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func isWarning(err error) bool {
	return errors.Is(err, pipeline.ErrNoInput) || errors.Is(err, pipeline.ErrNoText)
}

// describe maps pipeline errors to a status and a message fit for users.
func describe(err error) (int, string) {
	switch {
	case errors.Is(err, pipeline.ErrNoInput):
		return http.StatusBadRequest, "Please upload a file or enter text."
	case errors.Is(err, pipeline.ErrNoText):
		return http.StatusBadRequest, "No text could be extracted from the input."
	case errors.Is(err, pipeline.ErrUnsupportedFile):
		return http.StatusBadRequest, "Unsupported file type. Please upload a " + strings.Join(document.SupportedExtensions, " or ") + " file."
	case errors.Is(err, extract.ErrDecode):
		return http.StatusUnprocessableEntity, "The uploaded file is not valid UTF-8 text."
	case errors.Is(err, extract.ErrParse):
		return http.StatusUnprocessableEntity, "The uploaded Word document could not be read."
	case errors.Is(err, llm.ErrNotConfigured):
		return http.StatusServiceUnavailable, "Summarization is not configured: set OPENAI_API_KEY."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "The summarization request was cancelled or timed out."
	default:
		return http.StatusBadGateway, "The summarization service failed. Please try again later."
	}
}

func describeReadError(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload too large (max %d bytes).", tooLarge.Limit)
	}
	return http.StatusBadRequest, "Could not read the submitted form."
}

func newPage() pageData {
	return pageData{Accept: strings.Join(document.SupportedExtensions, ",")}
}

func render(log *slog.Logger, w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		httputil.Fail(log, w, "failed to render page", err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn("page write failed", "err", err)
	}
}

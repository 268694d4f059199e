package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"doc-summarizer/internal/config"
	"doc-summarizer/internal/llm"
	"doc-summarizer/internal/logger"
	"doc-summarizer/internal/metrics"
	"doc-summarizer/internal/pipeline"
	"doc-summarizer/internal/uploads"
)

// Deps bundles runtime dependencies for the summarizer service.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Pipeline *pipeline.Runner
}

// Build loads env, config, and shared components. A .env file is optional.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return Deps{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return BuildWith(cfg, logger.New(cfg.LogLevel, cfg.LogFormat))
}

// BuildWith assembles dependencies from an already loaded config.
func BuildWith(cfg config.Config, log *slog.Logger) (Deps, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to register metrics: %w", err)
	}

	store, err := buildUploads(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize upload store: %w", err)
	}
	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return Deps{
		Config:   cfg,
		Log:      log,
		Registry: reg,
		Metrics:  m,
		Pipeline: &pipeline.Runner{
			LLM:     llmClient,
			Uploads: store,
			Log:     log,
			Metrics: m,
		},
	}, nil
}

func buildUploads(cfg config.Config, log *slog.Logger) (uploads.Store, error) {
	switch cfg.UploadStore {
	case "local":
		log.Info("using local upload store", "dir", cfg.UploadDir)
		return uploads.NewLocal(cfg.UploadDir), nil
	case "minio":
		s, err := uploads.NewMinIO(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		log.Info("using MinIO upload store", "endpoint", cfg.MinIO.Endpoint, "bucket", cfg.MinIO.Bucket)
		return s, nil
	default:
		return nil, fmt.Errorf("invalid UPLOAD_STORE: %s (valid options: local, minio)", cfg.UploadStore)
	}
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		var opts []option.RequestOption
		if cfg.LLMBaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.LLMBaseURL))
		}
		if cfg.OpenAIKey == "" {
			log.Warn("OPENAI_API_KEY is not set; summarization requests will fail until it is configured")
		}
		log.Info("using OpenAI LLM client", "model", cfg.LLMModel, "base_url", cfg.LLMBaseURL)
		return llm.NewOpenAIClient(cfg.OpenAIKey, openai.ChatModel(cfg.LLMModel), opts...), nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid option: openai)", cfg.LLMProvider)
	}
}

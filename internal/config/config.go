package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Config holds runtime configuration for the summarizer service.
type Config struct {
	// Server
	Port            int           `env:"PORT" envDefault:"8080" validate:"min=1,max=65535"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`

	// Upload limits; 0 disables the limit.
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"0" validate:"gte=0"`

	// Uploads
	UploadStore string      `env:"UPLOAD_STORE" envDefault:"local" validate:"oneof=local minio"` // "local" (uploads dir) or "minio" (S3-compatible bucket)
	UploadDir   string      `env:"UPLOAD_DIR" envDefault:"uploads" validate:"required_if=UploadStore local"`
	MinIO       MinIOConfig `envPrefix:"MINIO_"`

	// LLM
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"openai" validate:"oneof=openai"` // any OpenAI-compatible endpoint
	OpenAIKey   string `env:"OPENAI_API_KEY"`
	LLMModel    string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMBaseURL  string `env:"LLM_BASE_URL" validate:"omitempty,url"`
}

// MinIOConfig holds object storage settings for the optional upload bucket.
type MinIOConfig struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

var validate = validator.New()

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// Validate checks value ranges and enumerations. A missing API key is not
// an error here; the LLM client reports it on first use.
func (c Config) Validate() error {
	return validate.Struct(c)
}

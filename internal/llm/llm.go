package llm

import (
	"context"
	"errors"
)

// SummaryPrompt prefixes the text sent for summarization.
const SummaryPrompt = "Summarize the following text. Provide a concise summary based on the input text:\n\n"

// NoResponse is returned in place of a summary when the model answers
// without any text.
const NoResponse = "No response from the model."

// ErrNotConfigured is returned before any network call when no API key
// was supplied.
var ErrNotConfigured = errors.New("llm: api key is not configured")

// Client is a minimal LLM interface to allow pluggable providers.
type Client interface {
	Summarize(ctx context.Context, text string) (string, error)
}

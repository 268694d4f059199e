package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient calls an OpenAI-compatible Chat Completions API.
type OpenAIClient struct {
	apiKey string
	model  openai.ChatModel
	client *openai.Client
}

// NewOpenAIClient builds a client for the given key and model. An empty key
// is accepted here and reported as ErrNotConfigured by Summarize. Extra
// options (base URL, HTTP client) are applied after the defaults.
func NewOpenAIClient(apiKey string, model openai.ChatModel, opts ...option.RequestOption) *OpenAIClient {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	cli := openai.NewClient(reqOpts...)
	return &OpenAIClient{
		apiKey: apiKey,
		model:  model,
		client: &cli,
	}
}

// Summarize sends one chat completion request with the summary prompt.
func (c *OpenAIClient) Summarize(ctx context.Context, text string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: buildMessages(SummaryPrompt + text),
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return NoResponse, nil
	}
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}

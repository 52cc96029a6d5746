package dispatch

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Completer is the underlying multi-vendor completion mechanism. The default
// implementation wraps an OpenAI-compatible client; tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type clientCompleter struct {
	client *openai.Client
}

// NewCompleter returns the default Completer backed by an openai client.
func NewCompleter(options ...option.RequestOption) Completer {
	return &clientCompleter{client: openai.NewClient(options...)}
}

func (c *clientCompleter) Complete(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params, opts...)
}

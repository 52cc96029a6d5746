package dispatch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/picobot-ai/picobot/messages"
	"github.com/picobot-ai/picobot/pkg/envx"
	"github.com/picobot-ai/picobot/provider"
	"github.com/picobot-ai/picobot/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type fakeCompleter struct {
	params openai.ChatCompletionNewParams
	resp   *openai.ChatCompletion
	err    error
	calls  int
}

func (f *fakeCompleter) Complete(_ context.Context, params openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.calls++
	f.params = params
	return f.resp, f.err
}

func newTestProvider(t *testing.T, options ...Option) *Provider {
	t.Helper()
	p, err := New(append([]Option{WithEnviron(envx.Map())}, options...)...)
	require.NoError(t, err)
	return p
}

func TestNew_GatewayDetectionAndEnvWiring(t *testing.T) {
	env := envx.Map()
	p, err := New(
		WithAPIKey("hub-key"),
		WithProviderName("aihubmix"),
		WithDefaultModel("claude-opus-4-5"),
		WithEnviron(env),
		WithCompleter(&fakeCompleter{}),
	)
	require.NoError(t, err)

	require.NotNil(t, p.gateway)
	assert.Equal(t, "aihubmix", p.gateway.Name)
	assert.Equal(t, "hub-key", env.Get("AIHUBMIX_API_KEY"))
	assert.Equal(t, "hub-key", env.Get("OPENAI_API_KEY"))
	assert.Equal(t, "https://aihubmix.com/v1", env.Get("OPENAI_API_BASE"))
}

func TestChat_ErrorBecomesContent(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("connection refused")}
	p := newTestProvider(t, WithAPIKey("sk-test"), WithCompleter(fake))

	resp := p.Chat(context.Background(), provider.CompletionRequest{
		Model:    "deepseek-chat",
		Messages: []messages.Message{messages.User("hi")},
	})

	assert.True(t, resp.IsError())
	assert.Equal(t, provider.FinishError, resp.FinishReason)
	assert.NotEmpty(t, resp.Content)
	assert.Contains(t, resp.Content, "connection refused")
}

func TestChat_DefaultModelAndPrefixing(t *testing.T) {
	fake := &fakeCompleter{resp: &openai.ChatCompletion{}}
	p := newTestProvider(t,
		WithAPIKey("sk-test"),
		WithDefaultModel("deepseek-chat"),
		WithCompleter(fake),
	)

	resp := p.Chat(context.Background(), provider.CompletionRequest{
		Messages: []messages.Message{messages.User("hi")},
	})

	require.False(t, resp.IsError())
	assert.Equal(t, "deepseek/deepseek-chat", fake.params.Model.Value)
}

func TestChat_GatewayPrefixing(t *testing.T) {
	fake := &fakeCompleter{resp: &openai.ChatCompletion{}}
	p := newTestProvider(t,
		WithAPIKey("sk-or-key"),
		WithProviderName("openrouter"),
		WithCompleter(fake),
	)

	p.Chat(context.Background(), provider.CompletionRequest{
		Model:    "anthropic/claude-opus-4-5",
		Messages: []messages.Message{messages.User("hi")},
	})

	assert.Equal(t, "openrouter/anthropic/claude-opus-4-5", fake.params.Model.Value)
}

func TestChat_RequestDefaults(t *testing.T) {
	fake := &fakeCompleter{resp: &openai.ChatCompletion{}}
	p := newTestProvider(t, WithAPIKey("sk-test"), WithCompleter(fake))

	p.Chat(context.Background(), provider.CompletionRequest{
		Model:    "custom-model",
		Messages: []messages.Message{messages.User("hi")},
	})

	assert.EqualValues(t, 4096, fake.params.MaxTokens.Value)
	assert.InDelta(t, 0.7, fake.params.Temperature.Value, 1e-9)

	temp := 0.2
	p.Chat(context.Background(), provider.CompletionRequest{
		Model:       "custom-model",
		Messages:    []messages.Message{messages.User("hi")},
		MaxTokens:   256,
		Temperature: &temp,
	})

	assert.EqualValues(t, 256, fake.params.MaxTokens.Value)
	assert.InDelta(t, 0.2, fake.params.Temperature.Value, 1e-9)
}

func TestChat_ToolsAttached(t *testing.T) {
	fake := &fakeCompleter{resp: &openai.ChatCompletion{}}
	p := newTestProvider(t, WithAPIKey("sk-test"), WithCompleter(fake))

	weather := tool.Must("get_weather",
		tool.WithDescription("look up weather"),
		tool.WithParameter("city", &jsonschema.Schema{Type: "string"}, true),
	)

	p.Chat(context.Background(), provider.CompletionRequest{
		Model:    "gpt-4o",
		Messages: []messages.Message{messages.User("weather in berlin?")},
		Tools:    []tool.Definition{weather},
	})

	tools := fake.params.Tools.Value
	require.Len(t, tools, 1)
	assert.Equal(t, "get_weather", tools[0].Function.Value.Name.Value)
	assert.NotNil(t, tools[0].Function.Value.Parameters.Value)
}

func TestChat_FullRoundTrip(t *testing.T) {
	var gotBody []byte
	var gotAuth, gotAppCode string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAppCode = r.Header.Get("APP-Code")
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": "let me check",
					"reasoning_content": "the user wants weather data",
					"tool_calls": [
						{"id": "call_1", "type": "function", "function": {"name": "get_weather", "arguments": "{\"city\":\"berlin\"}"}},
						{"id": "call_2", "type": "function", "function": {"name": "get_time", "arguments": "not json"}}
					]
				}
			}],
			"usage": {"prompt_tokens": 11, "completion_tokens": 7, "total_tokens": 18}
		}`))
	}))
	t.Cleanup(server.Close)

	p := newTestProvider(t,
		WithAPIKey("sk-test"),
		WithExtraHeaders(map[string]string{"APP-Code": "demo"}),
		WithCompleter(NewCompleter(option.WithBaseURL(server.URL+"/v1"), option.WithAPIKey("sk-test"))),
	)

	resp := p.Chat(context.Background(), provider.CompletionRequest{
		Model: "moonshot/kimi-k2.5",
		Messages: []messages.Message{
			messages.System("be helpful"),
			messages.User("weather in berlin?"),
		},
		Tools: []tool.Definition{tool.Must("get_weather")},
	})

	require.False(t, resp.IsError())
	assert.Equal(t, "let me check", resp.Content)
	assert.Equal(t, provider.FinishToolCalls, resp.FinishReason)
	assert.Equal(t, "the user wants weather data", resp.Reasoning)
	assert.EqualValues(t, 11, resp.Usage.PromptTokens)
	assert.EqualValues(t, 18, resp.Usage.TotalTokens)

	require.Len(t, resp.ToolCalls, 2)
	assert.Equal(t, "call_1", resp.ToolCalls[0].ID)
	assert.Equal(t, map[string]any{"city": "berlin"}, resp.ToolCalls[0].Arguments)
	// unparsable arguments degrade instead of failing
	assert.Equal(t, map[string]any{"raw": "not json"}, resp.ToolCalls[1].Arguments)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "demo", gotAppCode)

	body := gjson.ParseBytes(gotBody)
	assert.Equal(t, "moonshot/kimi-k2.5", body.Get("model").String())
	assert.Equal(t, "auto", body.Get("tool_choice").String())
	// the kimi-k2.5 override pins the sampling temperature
	assert.InDelta(t, 1.0, body.Get("temperature").Float(), 1e-9)
}

func TestChat_MultimodalContentFormatted(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"finish_reason":"stop","message":{"role":"assistant","content":"a cat"}}]}`))
	}))
	t.Cleanup(server.Close)

	p := newTestProvider(t,
		WithAPIKey("sk-test"),
		WithCompleter(NewCompleter(option.WithBaseURL(server.URL+"/v1"), option.WithAPIKey("sk-test"))),
	)

	resp := p.Chat(context.Background(), provider.CompletionRequest{
		Model: "anthropic/claude-opus-4-5",
		Messages: []messages.Message{
			messages.UserParts(
				messages.TextPart{Text: "what is in this image?"},
				messages.ImagePart{URL: "data:image/png;base64,iVBORw0KGgo="},
			),
		},
	})

	require.False(t, resp.IsError())
	assert.Equal(t, "a cat", resp.Content)

	body := gjson.ParseBytes(gotBody)
	parts := body.Get("messages.0.content")
	require.True(t, parts.IsArray())
	assert.Equal(t, "text", parts.Get("0.type").String())
	assert.Equal(t, "image", parts.Get("1.type").String())
	assert.Equal(t, "base64", parts.Get("1.source.type").String())
	assert.Equal(t, "image/png", parts.Get("1.source.media_type").String())
}

func TestChat_ToolConversationEchoes(t *testing.T) {
	fake := &fakeCompleter{resp: &openai.ChatCompletion{}}
	p := newTestProvider(t, WithAPIKey("sk-test"), WithCompleter(fake))

	p.Chat(context.Background(), provider.CompletionRequest{
		Model: "gpt-4o",
		Messages: []messages.Message{
			messages.User("weather?"),
			{
				Role: "assistant",
				ToolCalls: []messages.ToolCallData{
					{ID: "call_1", Name: "get_weather", Arguments: `{"city":"berlin"}`},
				},
			},
			messages.ToolResult("call_1", "get_weather", `{"temp": 4}`),
		},
	})

	require.Len(t, fake.params.Messages.Value, 3)
}

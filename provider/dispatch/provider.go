package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fogfish/opts"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/picobot-ai/picobot/messages"
	"github.com/picobot-ai/picobot/pkg/envx"
	"github.com/picobot-ai/picobot/pkg/jsonx"
	"github.com/picobot-ai/picobot/pkg/slogx"
	"github.com/picobot-ai/picobot/provider"
	"github.com/picobot-ai/picobot/provider/registry"
	"github.com/tidwall/gjson"
)

const (
	defaultModel     = "anthropic/claude-opus-4-5"
	defaultMaxTokens = 4096
	defaultTemp      = 0.7
)

// Options configures a dispatch Provider.
type Options struct {
	// APIKey and APIBase are the resolved credentials for this provider.
	APIKey  string
	APIBase string

	// ExtraHeaders ride on every request (e.g. APP-Code for AiHubMix).
	ExtraHeaders map[string]string

	// DefaultModel serves requests that name no model.
	DefaultModel string

	// ProviderName is the configuration key the credentials came from; it
	// is the primary signal for gateway detection.
	ProviderName string

	// Env receives credential environment wiring. Defaults to the process
	// environment.
	Env envx.Environ

	// Completer overrides the completion backend. Defaults to an
	// OpenAI-compatible client.
	Completer Completer
}

var (
	// WithAPIKey sets the provider API key.
	WithAPIKey = opts.ForName[Options, string]("APIKey")
	// WithAPIBase sets a custom endpoint.
	WithAPIBase = opts.ForName[Options, string]("APIBase")
	// WithExtraHeaders sets headers attached to every request.
	WithExtraHeaders = opts.ForName[Options, map[string]string]("ExtraHeaders")
	// WithDefaultModel sets the model used when a request names none.
	WithDefaultModel = opts.ForName[Options, string]("DefaultModel")
	// WithProviderName sets the configuration key hint for gateway detection.
	WithProviderName = opts.ForName[Options, string]("ProviderName")
	// WithEnviron sets the environment capability receiving credential wiring.
	WithEnviron = opts.ForName[Options, envx.Environ]("Env")
	// WithCompleter sets the completion backend.
	WithCompleter = opts.ForName[Options, Completer]("Completer")
)

// Option configures a Provider.
type Option = opts.Option[Options]

// Provider dispatches normalized chat requests to the completion backend,
// applying registry-driven credentials, prefixing, and overrides.
type Provider struct {
	apiKey       string
	apiBase      string
	extraHeaders map[string]string
	defaultModel string
	gateway      *registry.Spec
	completer    Completer
	log          *slog.Logger
}

var _ provider.Provider = (*Provider)(nil)

// New builds a dispatch Provider. Credential environment wiring happens here,
// once, so that repeated construction stays idempotent.
func New(options ...opts.Option[Options]) (*Provider, error) {
	o := Options{
		DefaultModel: defaultModel,
		Env:          envx.OS(),
	}
	if err := opts.Apply(&o, options); err != nil {
		return nil, err
	}

	gateway := registry.FindGateway(o.ProviderName, o.APIKey, o.APIBase)
	registry.SetupEnv(o.Env, gateway, o.APIKey, o.APIBase, o.DefaultModel)

	completer := o.Completer
	if completer == nil {
		var clientOpts []option.RequestOption
		if o.APIKey != "" {
			clientOpts = append(clientOpts, option.WithAPIKey(o.APIKey))
		}
		if o.APIBase != "" {
			clientOpts = append(clientOpts, option.WithBaseURL(o.APIBase))
		}
		completer = NewCompleter(clientOpts...)
	}

	return &Provider{
		apiKey:       o.APIKey,
		apiBase:      o.APIBase,
		extraHeaders: o.ExtraHeaders,
		defaultModel: o.DefaultModel,
		gateway:      gateway,
		completer:    completer,
		log:          slog.With(slogx.LoggerName("dispatch")),
	}, nil
}

// DefaultModel returns the model used when a request names none.
func (p *Provider) DefaultModel() string { return p.defaultModel }

// Chat sends one completion request. It is total: every failure comes back
// as a response with FinishError and a readable message.
func (p *Provider) Chat(ctx context.Context, req provider.CompletionRequest) provider.Response {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}
	model = registry.ResolveModel(model, p.gateway)

	params, err := p.buildParams(model, req)
	if err != nil {
		p.log.Warn("failed to build completion request", slogx.Error(err), slog.String("model", model))
		return provider.ErrorResponse(fmt.Sprintf("Error calling LLM: %v", err))
	}

	runID := uuid.New()
	p.log.Debug("dispatching chat completion",
		slogx.Stringer("run_id", runID),
		slog.String("model", model),
		slog.Int("messages", len(req.Messages)))

	chat, err := p.completer.Complete(ctx, params, p.requestOptions(model, len(req.Tools) > 0)...)
	if err != nil {
		p.log.Warn("chat completion failed",
			slogx.Stringer("run_id", runID),
			slog.String("model", model),
			slogx.Error(err))
		return provider.ErrorResponse(fmt.Sprintf("Error calling LLM: %v", err))
	}

	return parseCompletion(chat)
}

func (p *Provider) buildParams(model string, req provider.CompletionRequest) (openai.ChatCompletionNewParams, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := defaultTemp
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	params := openai.ChatCompletionNewParams{
		Messages:    openai.F(buildMessages(req.Messages, model)),
		Model:       openai.F(model),
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(temperature),
	}

	if len(req.Tools) > 0 {
		tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
		for i, t := range req.Tools {
			jv, err := jsonx.ToDynamicJSON(t.Schema())
			if err != nil {
				return openai.ChatCompletionNewParams{}, fmt.Errorf("failed to convert tool %s schema: %w", t.Name, err)
			}
			def := openai.FunctionDefinitionParam{
				Name:       openai.String(t.Name),
				Parameters: openai.F(shared.FunctionParameters(jv)),
			}
			if t.Description != "" {
				def.Description = openai.String(t.Description)
			}
			tools[i] = openai.ChatCompletionToolParam{
				Type:     openai.F(openai.ChatCompletionToolTypeFunction),
				Function: openai.F(def),
			}
		}
		params.Tools = openai.F(tools)
	}

	return params, nil
}

// requestOptions attaches resolved credentials and per-model parameter
// overrides to a single request. Tool choice is forced to automatic only
// when tools ride on the request body.
func (p *Provider) requestOptions(model string, hasTools bool) []option.RequestOption {
	var ro []option.RequestOption
	if p.apiKey != "" {
		ro = append(ro, option.WithAPIKey(p.apiKey))
	}
	if p.apiBase != "" {
		ro = append(ro, option.WithBaseURL(p.apiBase))
	}
	for k, v := range p.extraHeaders {
		ro = append(ro, option.WithHeader(k, v))
	}
	if hasTools {
		ro = append(ro, option.WithJSONSet("tool_choice", "auto"))
	}
	for k, v := range registry.OverridesFor(model) {
		ro = append(ro, option.WithJSONSet(k, v))
	}
	return ro
}

func buildMessages(msgs []messages.Message, model string) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch {
		case m.Role == "tool":
			result = append(result, openai.ToolMessage(m.ToolCallID, m.Content.Text))
		case len(m.ToolCalls) > 0:
			tcd := make([]openai.ChatCompletionMessageToolCallParam, len(m.ToolCalls))
			for i, tc := range m.ToolCalls {
				tcd[i] = openai.ChatCompletionMessageToolCallParam{
					ID:   openai.String(tc.ID),
					Type: openai.F(openai.ChatCompletionMessageToolCallTypeFunction),
					Function: openai.F(openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      openai.String(tc.Name),
						Arguments: openai.String(tc.Arguments),
					}),
				}
			}
			msg := openai.ChatCompletionMessageParam{
				Role:      openai.F(openai.ChatCompletionMessageParamRoleAssistant),
				ToolCalls: openai.F[any](tcd),
			}
			if m.Content.Text != "" {
				msg.Content = openai.F[any](m.Content.Text)
			}
			result = append(result, msg)
		default:
			result = append(result, openai.ChatCompletionMessageParam{
				Role:    openai.F(openai.ChatCompletionMessageParamRole(m.Role)),
				Content: openai.F[any](messages.FormatContent(m.Content, model)),
			})
		}
	}
	return result
}

func parseCompletion(chat *openai.ChatCompletion) provider.Response {
	resp := provider.Response{
		FinishReason: provider.FinishStop,
		Timestamp:    strfmt.DateTime(time.Now()),
	}
	if chat == nil || len(chat.Choices) == 0 {
		return resp
	}

	choice := chat.Choices[0]
	resp.Content = choice.Message.Content
	resp.FinishReason = provider.NormalizeFinish(string(choice.FinishReason))

	if len(choice.Message.ToolCalls) > 0 {
		resp.ToolCalls = make([]provider.ToolCallRequest, len(choice.Message.ToolCalls))
		for i, tc := range choice.Message.ToolCalls {
			resp.ToolCalls[i] = provider.ToolCallRequest{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: jsonx.ObjectOrRaw(tc.Function.Arguments),
			}
		}
	}

	resp.Usage = provider.Usage{
		PromptTokens:     chat.Usage.PromptTokens,
		CompletionTokens: chat.Usage.CompletionTokens,
		TotalTokens:      chat.Usage.TotalTokens,
	}

	// Reasoning models surface their thinking in a nonstandard field the
	// typed client does not model; pull it from the raw payload.
	resp.Reasoning = gjson.Get(chat.JSON.RawJSON(), "choices.0.message.reasoning_content").String()

	return resp
}

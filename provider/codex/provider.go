package codex

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/picobot-ai/picobot/messages"
	"github.com/picobot-ai/picobot/pkg/jsonx"
	"github.com/picobot-ai/picobot/pkg/slogx"
	"github.com/picobot-ai/picobot/provider"
	"github.com/picobot-ai/picobot/tool"

	"github.com/fogfish/opts"
)

const (
	defaultBaseURL   = "https://chatgpt.com/backend-api/codex"
	defaultModel     = "gpt-5.1-codex"
	defaultMaxTokens = 4096
	modelPrefix      = "openai-codex/"
)

// Sanitized user-facing failure messages. Upstream error text never reaches
// callers: backend error bodies can echo request headers and tokens.
const (
	msgTLSFailure = "TLS certificate verification failed when contacting Codex. " +
		"Set allow_insecure_tls to retry without verification if you trust this network."
	msgNetworkFailure = "Network error while contacting Codex."
	msgGenericFailure = "Codex request failed."
)

// SendFunc issues one HTTP exchange with the Codex backend and returns the
// raw response body. verify toggles TLS certificate verification.
type SendFunc func(ctx context.Context, url string, headers map[string]string, body map[string]any, verify bool) ([]byte, error)

// Options configure a Provider.
type Options struct {
	Tokens           TokenSource
	BaseURL          string
	AllowInsecureTLS bool
	Send             SendFunc
}

var (
	// WithTokenSource sets the credential collaborator.
	WithTokenSource = opts.ForName[Options, TokenSource]("Tokens")
	// WithBaseURL overrides the backend endpoint.
	WithBaseURL = opts.ForName[Options, string]("BaseURL")
	// WithAllowInsecureTLS opts into a single retry without certificate
	// verification after a TLS trust failure.
	WithAllowInsecureTLS = opts.ForName[Options, bool]("AllowInsecureTLS")
	// WithSender replaces the HTTP transport.
	WithSender = opts.ForName[Options, SendFunc]("Send")
)

// Option configures a Provider.
type Option = opts.Option[Options]

// Provider talks to the Codex backend with OAuth credentials from a
// TokenSource. Safe for concurrent use; each call owns its own
// two-attempt TLS sequence.
type Provider struct {
	tokens        TokenSource
	baseURL       string
	allowInsecure bool
	send          SendFunc
	log           *slog.Logger
}

var _ provider.Provider = (*Provider)(nil)

// New builds a Codex provider. Without options it reads credentials from the
// codex CLI cache and keeps TLS verification on for every attempt.
func New(options ...Option) (*Provider, error) {
	o := Options{
		Tokens:  FileTokenSource{},
		BaseURL: defaultBaseURL,
		Send:    defaultSend,
	}
	if err := opts.Apply(&o, options); err != nil {
		return nil, err
	}

	return &Provider{
		tokens:        o.Tokens,
		baseURL:       strings.TrimSuffix(o.BaseURL, "/"),
		allowInsecure: o.AllowInsecureTLS,
		send:          o.Send,
		log:           slog.With(slogx.LoggerName("codex")),
	}, nil
}

// Chat implements the provider contract. It never returns an error: every
// failure becomes a Response with FinishError and a sanitized message.
func (p *Provider) Chat(ctx context.Context, req provider.CompletionRequest) provider.Response {
	token, err := p.tokens.Token(ctx)
	if err != nil {
		p.log.Error("codex token acquisition failed", slogx.Error(err))
		return provider.ErrorResponse(fmt.Sprintf("Codex authentication failed: %v", err))
	}

	model := req.Model
	if model == "" {
		model = defaultModel
	}
	model = strings.TrimPrefix(model, modelPrefix)

	url := p.baseURL + "/chat/completions"
	headers := map[string]string{
		"Authorization":      "Bearer " + token.Access,
		"ChatGPT-Account-ID": token.AccountID,
		"Content-Type":       "application/json",
	}
	body := p.buildBody(model, req)

	raw, err := p.send(ctx, url, headers, body, true)
	if err != nil {
		if !isTLSFailure(err) {
			return p.failure(err)
		}
		if !p.allowInsecure {
			p.log.Error("codex TLS verification failed", slogx.Error(err))
			return provider.ErrorResponse(msgTLSFailure)
		}
		p.log.Warn("retrying codex request without TLS verification because allow_insecure_tls is set")
		raw, err = p.send(ctx, url, headers, body, false)
		if err != nil {
			return p.failure(err)
		}
	}

	return parseResponse(raw)
}

func (p *Provider) failure(err error) provider.Response {
	p.log.Error("codex request failed", slogx.Error(err))
	switch {
	case isTLSFailure(err):
		return provider.ErrorResponse(msgTLSFailure)
	case isNetworkFailure(err):
		return provider.ErrorResponse(msgNetworkFailure)
	}
	var status *statusError
	if errors.As(err, &status) {
		return provider.ErrorResponse(fmt.Sprintf("Codex request failed (HTTP %d).", status.Code))
	}
	return provider.ErrorResponse(msgGenericFailure)
}

func (p *Provider) buildBody(model string, req provider.CompletionRequest) map[string]any {
	msgs := make([]map[string]any, 0, len(req.Messages))
	for _, m := range req.Messages {
		entry := map[string]any{
			"role":    m.Role,
			"content": messages.FormatContent(m.Content, model),
		}
		if m.ToolCallID != "" {
			entry["tool_call_id"] = m.ToolCallID
		}
		if m.Name != "" {
			entry["name"] = m.Name
		}
		if len(m.ToolCalls) > 0 {
			calls := make([]map[string]any, 0, len(m.ToolCalls))
			for _, tc := range m.ToolCalls {
				calls = append(calls, map[string]any{
					"id":   tc.ID,
					"type": "function",
					"function": map[string]any{
						"name":      tc.Name,
						"arguments": tc.Arguments,
					},
				})
			}
			entry["tool_calls"] = calls
		}
		msgs = append(msgs, entry)
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body := map[string]any{
		"model":      model,
		"messages":   msgs,
		"max_tokens": maxTokens,
	}
	if req.Temperature != nil {
		body["temperature"] = *req.Temperature
	}
	if len(req.Tools) > 0 {
		body["tools"] = toolPayload(req.Tools)
		body["tool_choice"] = "auto"
	}
	return body
}

func toolPayload(tools []tool.Definition) []map[string]any {
	out := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		params, err := jsonx.ToDynamicJSON(t.Schema())
		if err != nil {
			params = map[string]any{"type": "object"}
		}
		out = append(out, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  params,
			},
		})
	}
	return out
}

func parseResponse(raw []byte) provider.Response {
	doc := gjson.ParseBytes(raw)
	msg := doc.Get("choices.0.message")
	if !msg.Exists() {
		return provider.ErrorResponse(msgGenericFailure)
	}

	var toolCalls []provider.ToolCallRequest
	for _, tc := range msg.Get("tool_calls").Array() {
		toolCalls = append(toolCalls, provider.ToolCallRequest{
			ID:        tc.Get("id").String(),
			Name:      tc.Get("function.name").String(),
			Arguments: jsonx.ObjectOrRaw(tc.Get("function.arguments").String()),
		})
	}

	return provider.Response{
		Content:      msg.Get("content").String(),
		ToolCalls:    toolCalls,
		FinishReason: provider.NormalizeFinish(doc.Get("choices.0.finish_reason").String()),
		Usage: provider.Usage{
			PromptTokens:     doc.Get("usage.prompt_tokens").Int(),
			CompletionTokens: doc.Get("usage.completion_tokens").Int(),
			TotalTokens:      doc.Get("usage.total_tokens").Int(),
		},
		Reasoning: msg.Get("reasoning_content").String(),
	}
}

type statusError struct {
	Code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("codex backend returned HTTP %d", e.Code)
}

var tlsMarkers = []string{
	"certificate verify failed",
	"certificate_verify_failed",
	"certificate signed by unknown authority",
	"certificate is not trusted",
	"x509:",
}

func isTLSFailure(err error) bool {
	if err == nil {
		return false
	}
	var (
		unknownAuthority x509.UnknownAuthorityError
		invalidCert      x509.CertificateInvalidError
		hostname         x509.HostnameError
		verification     *tls.CertificateVerificationError
	)
	if errors.As(err, &unknownAuthority) ||
		errors.As(err, &invalidCert) ||
		errors.As(err, &hostname) ||
		errors.As(err, &verification) {
		return true
	}
	text := strings.ToLower(err.Error())
	for _, marker := range tlsMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func isNetworkFailure(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

var (
	verifiedClient = &http.Client{Timeout: 120 * time.Second}
	insecureClient = &http.Client{
		Timeout: 120 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		},
	}
)

func defaultSend(ctx context.Context, url string, headers map[string]string, body map[string]any, verify bool) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding codex request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := verifiedClient
	if !verify {
		client = insecureClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// the body is discarded on purpose, error payloads can echo credentials
		return nil, &statusError{Code: resp.StatusCode}
	}

	return io.ReadAll(resp.Body)
}

package provider

import (
	"context"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/picobot-ai/picobot/messages"
	"github.com/picobot-ai/picobot/tool"
)

// Provider is the normalized chat contract. Implementations handle the
// specifics of one vendor or gateway while callers see a single shape.
// Chat is total: it reports failures through the returned Response, never
// through a panic or error value.
type Provider interface {
	Chat(ctx context.Context, req CompletionRequest) Response
}

// CompletionRequest carries everything needed for one chat completion.
type CompletionRequest struct {
	// Model is the requested model identifier. Empty means the provider's
	// configured default.
	Model string

	// Messages is the conversation so far, in the neutral representation.
	Messages []messages.Message

	// Tools, when non-empty, are offered to the model with automatic tool
	// selection.
	Tools []tool.Definition

	// MaxTokens caps the response length. Zero means the provider default.
	MaxTokens int

	// Temperature is the sampling temperature. Nil means the provider
	// default; a pointer keeps zero distinguishable from unset.
	Temperature *float64

	// Prevents unkeyed literals
	_ struct{}
}

// FinishReason is the closed set of completion outcome tags.
type FinishReason string

const (
	FinishStop      FinishReason = "stop"
	FinishLength    FinishReason = "length"
	FinishToolCalls FinishReason = "tool_calls"
	FinishError     FinishReason = "error"
)

// Usage carries token accounting for one completion. All counters are zero
// when the vendor reports nothing.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens,omitempty"`
	CompletionTokens int64 `json:"completion_tokens,omitempty"`
	TotalTokens      int64 `json:"total_tokens,omitempty"`
}

// ToolCallRequest is a tool invocation requested by the model. Arguments are
// structured; when a vendor returns argument text that does not parse as an
// object it degrades to a single-key {"raw": text} wrapper.
type ToolCallRequest struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Response is the normalized result of one chat completion. Immutable once
// constructed.
type Response struct {
	Content      string            `json:"content,omitempty"`
	ToolCalls    []ToolCallRequest `json:"tool_calls,omitempty"`
	FinishReason FinishReason      `json:"finish_reason"`
	Usage        Usage             `json:"usage,omitempty"`
	Reasoning    string            `json:"reasoning,omitempty"`
	Timestamp    strfmt.DateTime   `json:"timestamp,omitempty"`
}

// IsError reports whether the response carries a failure outcome.
func (r Response) IsError() bool {
	return r.FinishReason == FinishError
}

// ErrorResponse builds the failure-shaped Response used by every provider:
// the message becomes the content and the finish reason is FinishError.
func ErrorResponse(message string) Response {
	return Response{
		Content:      message,
		FinishReason: FinishError,
		Timestamp:    strfmt.DateTime(time.Now()),
	}
}

// NormalizeFinish maps a vendor finish tag onto the closed set, defaulting
// to FinishStop when the vendor reports nothing recognizable.
func NormalizeFinish(reason string) FinishReason {
	switch FinishReason(reason) {
	case FinishStop, FinishLength, FinishToolCalls, FinishError:
		return FinishReason(reason)
	default:
		return FinishStop
	}
}

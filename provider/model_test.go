package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorResponse(t *testing.T) {
	resp := ErrorResponse("Error calling LLM: connection refused")

	assert.True(t, resp.IsError())
	assert.Equal(t, FinishError, resp.FinishReason)
	assert.Equal(t, "Error calling LLM: connection refused", resp.Content)
	assert.WithinDuration(t, time.Now(), time.Time(resp.Timestamp), time.Minute)
}

func TestNormalizeFinish(t *testing.T) {
	tests := []struct {
		in   string
		want FinishReason
	}{
		{"stop", FinishStop},
		{"length", FinishLength},
		{"tool_calls", FinishToolCalls},
		{"error", FinishError},
		{"", FinishStop},
		{"content_filter", FinishStop},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeFinish(tt.in), "input %q", tt.in)
	}
}

func TestResponse_IsError(t *testing.T) {
	assert.False(t, Response{FinishReason: FinishStop}.IsError())
	assert.True(t, Response{FinishReason: FinishError}.IsError())
}

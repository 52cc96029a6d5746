package messages

import (
	"log/slog"
	"strings"

	"github.com/picobot-ai/picobot/pkg/slogx"
)

// FormatContent renders neutral content into the wire shape expected by the
// vendor family serving the given model. Plain text passes through unchanged.
// Part lists are rendered in the OpenAI-compatible shape unless they contain
// an image and the model belongs to a family with its own image schema
// (claude/anthropic, gemini). Formatting never fails; malformed image
// elements are dropped with a logged warning.
func FormatContent(content Content, model string) any {
	if len(content.Parts) == 0 {
		return content.Text
	}
	if !hasImage(content.Parts) {
		return openaiParts(content.Parts)
	}

	lower := strings.ToLower(model)
	switch {
	case strings.Contains(lower, "claude"), strings.Contains(lower, "anthropic"):
		return claudeParts(content.Parts, model)
	case strings.Contains(lower, "gemini"):
		return geminiParts(content.Parts, model)
	default:
		return openaiParts(content.Parts)
	}
}

func hasImage(parts []Part) bool {
	for _, p := range parts {
		if _, ok := p.(ImagePart); ok {
			return true
		}
	}
	return false
}

// splitDataURL extracts the MIME type and base64 payload from a data URL by
// splitting on the first ";base64," delimiter.
func splitDataURL(url string) (mime, data string, ok bool) {
	rest, found := strings.CutPrefix(url, "data:")
	if !found {
		return "", "", false
	}
	mime, data, found = strings.Cut(rest, ";base64,")
	if !found {
		return "", "", false
	}
	return mime, data, true
}

func openaiParts(parts []Part) []any {
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		switch part := p.(type) {
		case TextPart:
			out = append(out, map[string]any{"type": "text", "text": part.Text})
		case ImagePart:
			out = append(out, map[string]any{
				"type":      "image_url",
				"image_url": map[string]any{"url": part.URL},
			})
		}
	}
	return out
}

func claudeParts(parts []Part, model string) []any {
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		switch part := p.(type) {
		case TextPart:
			out = append(out, map[string]any{"type": "text", "text": part.Text})
		case ImagePart:
			mime, data, ok := splitDataURL(part.URL)
			if !ok {
				slog.Warn("dropping image: claude requires a base64 data URL",
					slogx.LoggerName("messages"), slog.String("model", model))
				continue
			}
			out = append(out, map[string]any{
				"type": "image",
				"source": map[string]any{
					"type":       "base64",
					"media_type": mime,
					"data":       data,
				},
			})
		}
	}
	return out
}

// geminiParts intentionally drops the "type" discriminator field; the Gemini
// schema keys parts by their single field instead.
func geminiParts(parts []Part, model string) []any {
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		switch part := p.(type) {
		case TextPart:
			out = append(out, map[string]any{"text": part.Text})
		case ImagePart:
			mime, data, ok := splitDataURL(part.URL)
			if !ok {
				slog.Warn("dropping image: gemini requires a base64 data URL",
					slogx.LoggerName("messages"), slog.String("model", model))
				continue
			}
			out = append(out, map[string]any{
				"inline_data": map[string]any{
					"mime_type": mime,
					"data":      data,
				},
			})
		}
	}
	return out
}

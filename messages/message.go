package messages

// Message is one entry in a conversation, in the neutral representation all
// providers consume. Role follows the OpenAI-compatible convention
// (system, user, assistant, tool).
type Message struct {
	Role    string
	Content Content

	// ToolCalls echoes an assistant turn's tool invocations back to the
	// vendor on subsequent requests.
	ToolCalls []ToolCallData

	// ToolCallID and Name link a tool-result message to the call that
	// produced it. Only set when Role is "tool".
	ToolCallID string
	Name       string
}

// ToolCallData is the wire echo of a single tool invocation. Arguments stay
// a raw JSON string here; parsing happens only on provider responses.
type ToolCallData struct {
	ID        string
	Name      string
	Arguments string
}

// Content is either plain text or an ordered list of multimodal parts.
// Text is used when Parts is empty.
type Content struct {
	Text  string
	Parts []Part
}

// Part is one element of multimodal content.
type Part interface {
	part()
}

// TextPart is a text element.
type TextPart struct {
	Text string
}

func (TextPart) part() {}

// ImagePart is an image element carrying a data URL
// (data:<mime>;base64,<payload>).
type ImagePart struct {
	URL string
}

func (ImagePart) part() {}

// System builds a system message.
func System(text string) Message {
	return Message{Role: "system", Content: Content{Text: text}}
}

// User builds a plain-text user message.
func User(text string) Message {
	return Message{Role: "user", Content: Content{Text: text}}
}

// UserParts builds a multimodal user message.
func UserParts(parts ...Part) Message {
	return Message{Role: "user", Content: Content{Parts: parts}}
}

// Assistant builds a plain-text assistant message.
func Assistant(text string) Message {
	return Message{Role: "assistant", Content: Content{Text: text}}
}

// ToolResult builds a tool-result message linked to a prior tool call.
func ToolResult(callID, name, content string) Message {
	return Message{Role: "tool", ToolCallID: callID, Name: name, Content: Content{Text: content}}
}

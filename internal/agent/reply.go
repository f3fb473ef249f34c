package agent

import "encoding/json"

// ReplyType is the type tag used when a Reply is serialized.
const ReplyType = "Reply"

// Reply is the final answer of one Run.
type Reply struct {
	Text      string
	ToolCalls []ToolInvocation
}

// ToolInvocation records one tool call made while producing a Reply.
type ToolInvocation struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Output    string         `json:"output,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Result is the text handed back to the model for this call.
func (t ToolInvocation) Result() string {
	if t.Error != "" {
		return "error: " + t.Error
	}
	return t.Output
}

// String returns the reply text.
func (r *Reply) String() string { return r.Text }

// MarshalJSON encodes the reply as {"type": "Reply", "content": text}.
func (r *Reply) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}{Type: ReplyType, Content: r.Text})
}

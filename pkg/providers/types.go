package providers

// Message represents a single message in a conversation. It is
// provider-agnostic; adapters transform it to the upstream wire format.
type Message struct {
	// Role identifies the message sender (system, user, assistant, tool)
	Role string `json:"role"`

	// Content is the message text content
	Content string `json:"content"`

	// ToolCalls contains tool calls made by the assistant (assistant role)
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID references the tool call this message responds to
	// (tool role)
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// ToolCall represents a function/tool call request from the model.
type ToolCall struct {
	// ID is a unique identifier for this tool call
	ID string `json:"id"`

	// Type is the type of tool call (currently always "function")
	Type string `json:"type"`

	// Function contains the function name and arguments
	Function FunctionCall `json:"function"`
}

// FunctionCall represents a specific function invocation.
type FunctionCall struct {
	// Name is the function name to call
	Name string `json:"name"`

	// Arguments is a JSON string containing the function arguments
	Arguments string `json:"arguments"`
}

// Tool represents a tool definition the model may call.
type Tool struct {
	// Type is the type of tool (currently always "function")
	Type string `json:"type"`

	// Function contains the function definition
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition defines a callable function.
type FunctionDefinition struct {
	// Name is the function name
	Name string `json:"name"`

	// Description explains what the function does
	Description string `json:"description,omitempty"`

	// Parameters is a JSON Schema object describing the parameters
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// CompletionRequest is a provider-agnostic completion request.
type CompletionRequest struct {
	// Messages is the conversation history
	Messages []Message `json:"messages"`

	// Tools is the list of tools the model may call
	Tools []Tool `json:"tools,omitempty"`

	// Stream indicates whether to stream the response
	Stream bool `json:"stream,omitempty"`
}

// CompletionResponse is a provider-agnostic completion response.
type CompletionResponse struct {
	// Content is the generated text content
	Content string `json:"content"`

	// FinishReason indicates why generation stopped
	FinishReason string `json:"finish_reason,omitempty"`
}

// StreamChunk is a single fragment of a streaming response.
type StreamChunk struct {
	// Delta is the incremental text content
	Delta string `json:"delta"`

	// Done marks the final chunk of the stream
	Done bool `json:"done,omitempty"`

	// Error carries a mid-stream failure; it is set on the final chunk
	Error error `json:"-"`
}

package openai

import "mercator-hq/ganymede/pkg/providers"

// Wire types for OpenAI-compatible chat-completion APIs. Zhipu, Spark and
// most other hosted models expose this shape.

// chatRequest is the upstream chat completion request.
type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Tools      []chatTool    `json:"tools,omitempty"`
	ToolChoice string        `json:"tool_choice,omitempty"`
	Stream     bool          `json:"stream,omitempty"`
}

// chatMessage is one message on the wire.
type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

// chatToolCall is a tool invocation on the wire.
type chatToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function chatFunctionCall `json:"function"`
}

// chatFunctionCall is the function name/arguments pair.
type chatFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// chatTool is a tool definition on the wire.
type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

// chatFunction is a function definition on the wire.
type chatFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// chatResponse is the upstream non-streaming response.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// chatChoice is one completion choice.
type chatChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// chatStreamResponse is one SSE data frame of a streaming response.
type chatStreamResponse struct {
	Choices []chatStreamChoice `json:"choices"`
}

// chatStreamChoice is one choice inside a stream frame.
type chatStreamChoice struct {
	Delta        chatDelta `json:"delta"`
	FinishReason string    `json:"finish_reason"`
}

// chatDelta is the incremental content of a stream frame.
type chatDelta struct {
	Content string `json:"content"`
}

// toWireRequest transforms a provider-agnostic request to the wire format,
// binding the upstream model identifier.
func toWireRequest(model string, req *providers.CompletionRequest) *chatRequest {
	wire := &chatRequest{
		Model:  model,
		Stream: req.Stream,
	}

	wire.Messages = make([]chatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msg := chatMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, chatToolCall{
				ID:   tc.ID,
				Type: tc.Type,
				Function: chatFunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		wire.Messages = append(wire.Messages, msg)
	}

	if len(req.Tools) > 0 {
		wire.Tools = make([]chatTool, 0, len(req.Tools))
		for _, t := range req.Tools {
			wire.Tools = append(wire.Tools, chatTool{
				Type: t.Type,
				Function: chatFunction{
					Name:        t.Function.Name,
					Description: t.Function.Description,
					Parameters:  t.Function.Parameters,
				},
			})
		}
		wire.ToolChoice = "auto"
	}

	return wire
}

// fromWireResponse normalizes an upstream response to the provider-agnostic
// shape, taking the first choice.
func fromWireResponse(resp *chatResponse) *providers.CompletionResponse {
	if len(resp.Choices) == 0 {
		return &providers.CompletionResponse{}
	}
	choice := resp.Choices[0]
	return &providers.CompletionResponse{
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
	}
}

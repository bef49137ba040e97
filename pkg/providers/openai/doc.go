// Package openai implements the Provider interface for OpenAI-compatible
// chat-completion APIs.
//
// Most hosted chat models (Zhipu GLM, Spark, OpenAI itself) expose the same
// wire shape: POST {base_url}/chat/completions with bearer authentication,
// a JSON body, and Server-Sent Events for streaming terminated by a
// "data: [DONE]" frame. One adapter therefore covers every upstream the
// gateway fronts; only the base URL and model identifier differ.
package openai

package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"mercator-hq/ganymede/pkg/providers"
)

// forwardStream reads the SSE response body and forwards chunks until the
// stream terminates. It owns the body and the channel: both are closed on
// every exit path, and a mid-stream failure is delivered as the final
// chunk's Error.
func (c *Client) forwardStream(ctx context.Context, body io.ReadCloser, chunks chan<- *providers.StreamChunk) {
	defer close(chunks)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			c.emit(ctx, chunks, &providers.StreamChunk{Done: true, Error: ctx.Err()})
			return
		default:
		}

		line := scanner.Text()
		if line == "" || !strings.HasPrefix(line, "data: ") {
			// Skip keep-alives, comments, and event-type lines.
			continue
		}

		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			c.emit(ctx, chunks, &providers.StreamChunk{Done: true})
			return
		}

		var frame chatStreamResponse
		if err := json.Unmarshal([]byte(data), &frame); err != nil {
			c.emit(ctx, chunks, &providers.StreamChunk{
				Done: true,
				Error: &providers.ParseError{
					Provider:    c.Name(),
					RawResponse: data,
					Cause:       err,
				},
			})
			return
		}

		if len(frame.Choices) == 0 {
			continue
		}
		choice := frame.Choices[0]
		if choice.Delta.Content != "" {
			if !c.emit(ctx, chunks, &providers.StreamChunk{Delta: choice.Delta.Content}) {
				return
			}
		}
		if choice.FinishReason != "" {
			c.emit(ctx, chunks, &providers.StreamChunk{Done: true})
			return
		}
	}

	if err := scanner.Err(); err != nil {
		c.emit(ctx, chunks, &providers.StreamChunk{
			Done: true,
			Error: &providers.StreamError{
				Provider: c.Name(),
				Message:  "failed to read stream",
				Cause:    err,
			},
		})
		return
	}

	// Upstream closed without [DONE]; treat as normal exhaustion.
	c.emit(ctx, chunks, &providers.StreamChunk{Done: true})
}

// emit delivers a chunk unless the consumer is gone. Returns false when the
// context was cancelled before delivery.
func (c *Client) emit(ctx context.Context, chunks chan<- *providers.StreamChunk, chunk *providers.StreamChunk) bool {
	select {
	case chunks <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

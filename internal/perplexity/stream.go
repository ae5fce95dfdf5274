// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package perplexity

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// =============================================================================
// SSE STREAMING
// =============================================================================

// doneSentinel terminates an SSE stream.
const doneSentinel = "[DONE]"

// StreamChunk is one SSE event payload.
type StreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Citations     []string       `json:"citations,omitempty"`
	SearchResults []SearchResult `json:"search_results,omitempty"`
	Usage         *Usage         `json:"usage,omitempty"`
}

// DeltaContent returns the fragment carried by this chunk. Chunks without
// delta content return "" and are skipped by the consumer.
func (c *StreamChunk) DeltaContent() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Delta.Content
}

// StreamResult is the assembled outcome of a streamed turn.
type StreamResult struct {
	Content       string
	Citations     []string
	SearchResults []SearchResult
	Usage         Usage
}

// sseReader extracts "data:" event payloads from an SSE body.
type sseReader struct {
	scanner *bufio.Scanner
}

func newSSEReader(r io.Reader) *sseReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &sseReader{scanner: sc}
}

// next returns the next event payload, io.EOF at end of stream.
func (r *sseReader) next() (string, error) {
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		return data, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// ChatStream performs a streaming chat completion. Each content fragment is
// written to sink as it arrives and concatenated into the returned result.
// Search results and citations are captured from the first event carrying
// them. The stream's lifetime is bounded by ctx, not a client timeout.
func (c *Client) ChatStream(ctx context.Context, reqBody *ChatRequest, sink io.Writer) (*StreamResult, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	resp, err := c.post(ctx, c.streamClient, reqBody, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := readResponse(resp)
		if readErr != nil {
			return nil, readErr
		}
		return nil, classifyStatus(resp.StatusCode, body)
	}

	result := &StreamResult{}
	var content strings.Builder
	reader := newSSEReader(resp.Body)

	for {
		data, err := reader.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, &NetworkError{Err: err}
		}
		if data == doneSentinel {
			break
		}

		var chunk StreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Skip malformed events rather than aborting the stream.
			continue
		}

		if frag := chunk.DeltaContent(); frag != "" {
			content.WriteString(frag)
			if sink != nil {
				if _, err := fmt.Fprint(sink, frag); err != nil {
					return nil, fmt.Errorf("write fragment: %w", err)
				}
			}
		}
		if len(result.SearchResults) == 0 && len(chunk.SearchResults) > 0 {
			result.SearchResults = chunk.SearchResults
		}
		if len(result.Citations) == 0 && len(chunk.Citations) > 0 {
			result.Citations = chunk.Citations
		}
		if chunk.Usage != nil {
			result.Usage = *chunk.Usage
		}
	}

	result.Content = content.String()
	if result.Content == "" {
		return nil, &ShapeError{Field: "delta content"}
	}
	return result, nil
}

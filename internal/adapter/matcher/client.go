package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls an OpenAI-compatible chat-completion API to judge which
// pings are relevant to a free-text query. It returns the assistant message
// verbatim; validating the format is the caller's job.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	HTTP    *http.Client
}

// New creates a client with a configurable request timeout.
func New(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Relevant sends the serialized corpus and the search term, instructing the
// model to answer with nothing but a JSON array of ping ids.
func (c *Client) Relevant(ctx context.Context, corpus []byte, searchTerm string) (string, error) {
	payload := struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
	}{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a helpful assistant."},
			{Role: "user", Content: fmt.Sprintf("Here are the available pings: %s", corpus)},
			{Role: "user", Content: fmt.Sprintf("Find the most relevant events for: %s. Only return the ping IDs in a JSON array format. DO NOT OUTPUT ANYTHING ELSE. If there are no relevant pings, return an empty array.", searchTerm)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding matcher request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("matcher request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("matcher error %s: %s", resp.Status, string(bodyBytes))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode matcher response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("matcher returned no choices")
	}

	return out.Choices[0].Message.Content, nil
}

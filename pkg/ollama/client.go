// Package ollama is a minimal client for the local Ollama server,
// covering only what the organizer needs: a connectivity check and
// JSON-constrained text generation, one-shot or streamed.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Client talks to one Ollama server with one model.
type Client struct {
	endpoint string
	model    string
	client   *http.Client
	log      *logrus.Logger
}

// NewClient creates a client. Empty arguments fall back to the local
// default server and a general-purpose model.
func NewClient(endpoint, model string, timeout time.Duration, log *logrus.Logger) *Client {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	if model == "" {
		model = "gemma3:12b"
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Model returns the model name requests are issued against.
func (c *Client) Model() string {
	return c.model
}

// Ping verifies the server is reachable. It is called once before an
// organize run does any work, so connectivity failures surface before
// indexing starts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama server unreachable at %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama server at %s returned status %d", c.endpoint, resp.StatusCode)
	}
	return nil
}

// Complete sends one prompt and returns the full response text. The
// request constrains output to JSON so the plan decoder gets a single
// document back.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.generate(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return result.Response, nil
}

// CompleteStream sends one prompt and delivers response fragments to
// fn as they arrive, in order. The concatenated fragments are also
// returned once the stream ends.
func (c *Client) CompleteStream(ctx context.Context, prompt string, fn func(chunk string)) (string, error) {
	resp, err := c.generate(ctx, prompt, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var full bytes.Buffer
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk generateResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return full.String(), fmt.Errorf("decode stream chunk: %w", err)
		}
		if chunk.Response != "" {
			full.WriteString(chunk.Response)
			if fn != nil {
				fn(chunk.Response)
			}
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("read stream: %w", err)
	}
	return full.String(), nil
}

func (c *Client) generate(ctx context.Context, prompt string, stream bool) (*http.Response, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: stream,
		Format: "json",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debugf("ollama generate: model=%s stream=%v prompt=%d bytes", c.model, stream, len(prompt))
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(msg))
	}
	return resp, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

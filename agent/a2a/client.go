package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	contractx "github.com/helpmesh/helpmesh/agent/contract"
)

type ClientConfig struct {
	URL     string        `split_words:"true" required:"true"`
	Timeout time.Duration `split_words:"true" default:"30s"`
}

// Client talks to a remote agent endpoint. It satisfies the same
// Responder interface as an in-process specialist, so callers cannot
// tell local from remote.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu   sync.Mutex
	card *Card
}

var _ contractx.Responder = (*Client)(nil)

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func NewClient(cfg ClientConfig, opts ...ClientOption) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, fmt.Errorf("%w: agent url is required", contractx.ErrValidation)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("%w: agent url: %v", contractx.ErrValidation, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func MustNewClient(cfg ClientConfig, opts ...ClientOption) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// Card fetches the remote agent's card. The first successful fetch is
// cached for the life of the client.
func (c *Client) Card(ctx context.Context) (Card, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.card != nil {
		return *c.card, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+WellKnownPath, nil)
	if err != nil {
		return Card{}, fmt.Errorf("build card request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Card{}, fmt.Errorf("fetch agent card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Card{}, fmt.Errorf("fetch agent card: status=%d", resp.StatusCode)
	}

	var card Card
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return Card{}, fmt.Errorf("decode agent card: %w", err)
	}
	c.card = &card
	return card, nil
}

// Respond submits one task and returns the artifact text.
func (c *Client) Respond(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(taskRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("marshal task: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+TasksPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build task request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit task: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read task response: %w", err)
	}

	var out taskResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode task response: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if out.Error != "" {
			return "", fmt.Errorf("remote agent: %s", out.Error)
		}
		return "", fmt.Errorf("submit task: status=%d", resp.StatusCode)
	}
	return out.Artifact, nil
}

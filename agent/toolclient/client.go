// Package toolclient is the synchronous HTTP stub over the tool bridge.
// Every call returns text and never an error: domain failures come back
// as "Error: ..." strings and transport failures as "bridge call
// failed: ..." strings, so a reasoning agent can fold any outcome into
// its reply.
package toolclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/helpmesh/helpmesh/agent/contract"
)

const maxResponseSizeBytes = 2 << 20

type Config struct {
	URL     string        `envconfig:"URL" split_words:"true" default:"http://127.0.0.1:8000"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func New(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("bridge url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid bridge url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func MustNew(cfg Config, opts ...Option) *Client {
	c, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// GetCustomer fetches customer details by id.
func (c *Client) GetCustomer(ctx context.Context, customerID int64) string {
	return c.call(ctx, "get_customer", map[string]any{"customer_id": customerID})
}

// ListCustomers lists customers, optionally filtered by status.
func (c *Client) ListCustomers(ctx context.Context, status string, limit int) string {
	if limit <= 0 {
		limit = 10
	}
	params := map[string]any{"limit": limit}
	if status != "" {
		params["status"] = status
	}
	return c.call(ctx, "list_customers", params)
}

// UpdateCustomer applies field updates from a JSON string. The string
// is parsed here; a parse failure is reported without contacting the
// bridge.
func (c *Client) UpdateCustomer(ctx context.Context, customerID int64, data string) string {
	var fields map[string]any
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return "Error: Invalid JSON data. Data must be a valid JSON string."
	}
	return c.call(ctx, "update_customer", map[string]any{
		"customer_id": customerID,
		"data":        fields,
	})
}

// CreateTicket opens a new support ticket.
func (c *Client) CreateTicket(ctx context.Context, customerID int64, issue, priority string) string {
	if strings.TrimSpace(priority) == "" {
		priority = "medium"
	}
	return c.call(ctx, "create_ticket", map[string]any{
		"customer_id": customerID,
		"issue":       issue,
		"priority":    priority,
	})
}

// CustomerHistory fetches a customer's tickets, newest first.
func (c *Client) CustomerHistory(ctx context.Context, customerID int64) string {
	return c.call(ctx, "get_customer_history", map[string]any{"customer_id": customerID})
}

func (c *Client) call(ctx context.Context, tool string, params map[string]any) string {
	body, err := json.Marshal(contractx.CallRequest{Tool: tool, Params: params})
	if err != nil {
		return fmt.Sprintf("bridge call failed: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call", bytes.NewReader(body))
	if err != nil {
		return fmt.Sprintf("bridge call failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("bridge call failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Sprintf("bridge call failed: %v", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Sprintf("bridge call failed: status=%d body=%s", resp.StatusCode, string(raw))
	}

	var env contractx.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Sprintf("bridge call failed: %v", err)
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "Unknown error"
		}
		return "Error: " + msg
	}
	return renderData(env.Data)
}

// renderData pretty-prints composite payloads and stringifies scalars.
func renderData(data any) string {
	switch data.(type) {
	case nil:
		return "null"
	case map[string]any, []any:
		pretty, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Sprint(data)
		}
		return string(pretty)
	default:
		return fmt.Sprint(data)
	}
}

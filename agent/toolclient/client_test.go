package toolclient

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	bridgex "github.com/helpmesh/helpmesh/agent/bridge"
	registryx "github.com/helpmesh/helpmesh/agent/registry"
	storex "github.com/helpmesh/helpmesh/agent/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	s, err := storex.New(filepath.Join(t.TempDir(), "helpmesh.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	if err := s.Seed(context.Background()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	srv := httptest.NewServer(bridgex.NewHandler(registryx.New(s)))
	t.Cleanup(srv.Close)

	return MustNew(Config{URL: srv.URL})
}

func TestGetCustomerRendersPrettyJSON(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)

	out := c.GetCustomer(context.Background(), 1)
	if strings.HasPrefix(out, "Error:") || strings.HasPrefix(out, "bridge call failed") {
		t.Fatalf("unexpected failure text: %q", out)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if decoded["name"] != "Alice Premium" {
		t.Fatalf("unexpected customer: %v", decoded["name"])
	}
	if !strings.Contains(out, "\n") {
		t.Fatalf("expected pretty-printed JSON, got %q", out)
	}
}

func TestGetCustomerNotFoundText(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)

	out := c.GetCustomer(context.Background(), 99999)
	if out != "Error: Customer 99999 not found" {
		t.Fatalf("unexpected text: %q", out)
	}
}

func TestListCustomersFiltered(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)

	out := c.ListCustomers(context.Background(), "disabled", 10)
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not a JSON list: %v\n%s", err, out)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 disabled customer, got %d", len(decoded))
	}
	if decoded[0]["name"] != "Charlie Disabled" {
		t.Fatalf("unexpected customer: %v", decoded[0]["name"])
	}
}

func TestUpdateCustomerRejectsBadJSONLocally(t *testing.T) {
	t.Parallel()

	// Deliberately unroutable URL: the local parse must fail before any
	// network activity, so no transport error text appears.
	c := MustNew(Config{URL: "http://127.0.0.1:1"})

	out := c.UpdateCustomer(context.Background(), 1, "{not json")
	if out != "Error: Invalid JSON data. Data must be a valid JSON string." {
		t.Fatalf("unexpected text: %q", out)
	}
}

func TestUpdateCustomerForwardsParsedData(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)

	out := c.UpdateCustomer(context.Background(), 5, `{"email":"newemail@example.com"}`)
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if decoded["email"] != "newemail@example.com" {
		t.Fatalf("update not applied: %v", decoded["email"])
	}
}

func TestCreateTicketDefaultsPriority(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)

	out := c.CreateTicket(context.Background(), 2, "Request upgrade details", "")
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if decoded["priority"] != "medium" {
		t.Fatalf("unexpected priority: %v", decoded["priority"])
	}
}

func TestTransportFailureBecomesText(t *testing.T) {
	t.Parallel()

	c := MustNew(Config{URL: "http://127.0.0.1:1"})

	out := c.GetCustomer(context.Background(), 1)
	if !strings.HasPrefix(out, "bridge call failed: ") {
		t.Fatalf("expected transport failure text, got %q", out)
	}
}

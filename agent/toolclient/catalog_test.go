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

func newCatalogExecutor(t *testing.T) Executor {
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

	infos, executor := BuildCatalog(MustNew(Config{URL: srv.URL}))
	if len(infos) != 5 {
		t.Fatalf("expected 5 tool infos, got %d", len(infos))
	}
	return executor
}

func TestCatalogInfosMatchRegistryNames(t *testing.T) {
	t.Parallel()

	want := []string{
		ToolGetCustomer,
		ToolListCustomers,
		ToolUpdateCustomer,
		ToolCreateTicket,
		ToolCustomerHistory,
	}
	infos := Infos()
	if len(infos) != len(want) {
		t.Fatalf("expected %d infos, got %d", len(want), len(infos))
	}
	for i, name := range want {
		if infos[i].Name != name {
			t.Fatalf("info[%d] = %q, want %q", i, infos[i].Name, name)
		}
	}
}

func TestExecutorGetCustomer(t *testing.T) {
	t.Parallel()

	executor := newCatalogExecutor(t)

	// Model-produced args arrive as float64 after JSON decoding.
	out := executor(context.Background(), ToolGetCustomer, map[string]any{"customer_id": float64(1)})
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if decoded["name"] != "Alice Premium" {
		t.Fatalf("unexpected customer: %v", decoded["name"])
	}
}

func TestExecutorMissingArgument(t *testing.T) {
	t.Parallel()

	executor := newCatalogExecutor(t)

	out := executor(context.Background(), ToolCreateTicket, map[string]any{"customer_id": float64(1)})
	if out != "Error: issue is required" {
		t.Fatalf("unexpected text: %q", out)
	}
}

func TestExecutorUnknownTool(t *testing.T) {
	t.Parallel()

	executor := newCatalogExecutor(t)

	out := executor(context.Background(), "inventory.query", map[string]any{"query": "x"})
	if !strings.HasPrefix(out, "Error: tool inventory.query is not available") {
		t.Fatalf("unexpected text: %q", out)
	}
}

func TestExecutorUpdateCustomerPassesJSONString(t *testing.T) {
	t.Parallel()

	executor := newCatalogExecutor(t)

	out := executor(context.Background(), ToolUpdateCustomer, map[string]any{
		"customer_id": float64(4),
		"data":        `{"phone":"999-999-9999"}`,
	})
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if decoded["phone"] != "999-999-9999" {
		t.Fatalf("update not applied: %v", decoded["phone"])
	}
}

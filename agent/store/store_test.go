package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	contractx "github.com/helpmesh/helpmesh/agent/contract"
)

// tickingClock hands out strictly increasing timestamps one second apart.
type tickingClock struct {
	mu   sync.Mutex
	base time.Time
	n    int
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.base.Add(time.Duration(c.n) * time.Second)
	c.n++
	return t
}

func newTestStore(t *testing.T) (*Store, *tickingClock) {
	t.Helper()

	clock := &tickingClock{base: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s, err := New(filepath.Join(t.TempDir(), "helpmesh.db"), WithClock(clock.Now))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Seed(context.Background()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return s, clock
}

func TestNewRequiresDSN(t *testing.T) {
	t.Parallel()

	if _, err := New("   "); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestSeedDeterministicDataset(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	c, err := s.GetCustomer(ctx, 1)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if c.Name != "Alice Premium" || c.Status != "active" {
		t.Fatalf("unexpected seed customer: %+v", c)
	}

	history, err := s.CustomerHistory(ctx, 1)
	if err != nil {
		t.Fatalf("CustomerHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 tickets for customer 1, got %d", len(history))
	}

	// Seeding twice must not accumulate rows.
	if err := s.Seed(ctx); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	all, err := s.ListCustomers(ctx, "", 100)
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("expected 6 customers after reseed, got %d", len(all))
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	_, err := s.GetCustomer(context.Background(), 99999)
	if err == nil {
		t.Fatal("expected error for missing customer")
	}
	if !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "Customer 99999 not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestListCustomersFilterAndLimit(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	customers, err := s.ListCustomers(context.Background(), "active", 2)
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}
	for _, c := range customers {
		if c.Status != "active" {
			t.Fatalf("expected only active customers, got %+v", c)
		}
	}
	if customers[0].ID >= customers[1].ID {
		t.Fatalf("expected insertion order by id, got %d then %d", customers[0].ID, customers[1].ID)
	}
}

func TestUpdateCustomerAppliesAllowListedFields(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	before, err := s.GetCustomer(ctx, 1)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}

	updated, err := s.UpdateCustomer(ctx, 1, map[string]any{
		"status": "disabled",
		"id":     int64(777), // not in the allow-list, must be dropped
	})
	if err != nil {
		t.Fatalf("UpdateCustomer() error = %v", err)
	}
	if updated.ID != 1 {
		t.Fatalf("id must be immutable, got %d", updated.ID)
	}
	if updated.Status != "disabled" {
		t.Fatalf("expected status disabled, got %q", updated.Status)
	}
	if updated.Name != before.Name || updated.Email != before.Email || updated.Phone != before.Phone {
		t.Fatalf("untouched fields changed: before=%+v after=%+v", before, updated)
	}
	if !(updated.UpdatedAt > before.UpdatedAt) {
		t.Fatalf("updated_at not refreshed: before=%q after=%q", before.UpdatedAt, updated.UpdatedAt)
	}

	reloaded, err := s.GetCustomer(ctx, 1)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if reloaded.Status != "disabled" {
		t.Fatalf("update not persisted, got %q", reloaded.Status)
	}
}

func TestUpdateCustomerNoValidFields(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	before, err := s.GetCustomer(ctx, 2)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}

	_, err = s.UpdateCustomer(ctx, 2, map[string]any{"unknown_field": "x"})
	if err == nil {
		t.Fatal("expected error for map of unknown fields")
	}
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err.Error() != "No valid fields to update" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	after, err := s.GetCustomer(ctx, 2)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if *after != *before {
		t.Fatalf("store state changed on rejected update: before=%+v after=%+v", before, after)
	}
}

func TestUpdateCustomerMissingRow(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	_, err := s.UpdateCustomer(context.Background(), 99999, map[string]any{"email": "x@example.com"})
	if !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateCustomerRoundTrip(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	updated, err := s.UpdateCustomer(ctx, 5, map[string]any{"email": "newemail@example.com"})
	if err != nil {
		t.Fatalf("UpdateCustomer() error = %v", err)
	}
	if updated.Email != "newemail@example.com" {
		t.Fatalf("unexpected email after update: %q", updated.Email)
	}

	reloaded, err := s.GetCustomer(ctx, 5)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if reloaded.Email != "newemail@example.com" {
		t.Fatalf("round-trip mismatch: %q", reloaded.Email)
	}
}

func TestCreateTicketNormalizesPriority(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	ticket, err := s.CreateTicket(ctx, 1, "issue text", "HIGH")
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}
	if ticket.Priority != "high" {
		t.Fatalf("expected normalized priority, got %q", ticket.Priority)
	}
	if ticket.Status != "open" {
		t.Fatalf("expected status open, got %q", ticket.Status)
	}
	if ticket.ID == 0 {
		t.Fatal("expected assigned ticket id")
	}
}

func TestCreateTicketRejectsBadPriority(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	before, err := s.CustomerHistory(ctx, 1)
	if err != nil {
		t.Fatalf("CustomerHistory() error = %v", err)
	}

	_, err = s.CreateTicket(ctx, 1, "x", "urgent")
	if err == nil {
		t.Fatal("expected error for bad priority")
	}
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err.Error() != "Priority must be 'low', 'medium', or 'high'" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	after, err := s.CustomerHistory(ctx, 1)
	if err != nil {
		t.Fatalf("CustomerHistory() error = %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("row inserted despite validation failure: %d -> %d", len(before), len(after))
	}
}

func TestCreateTicketDoesNotCheckCustomer(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	ticket, err := s.CreateTicket(context.Background(), 424242, "orphan issue", "low")
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}
	if ticket.CustomerID != 424242 {
		t.Fatalf("unexpected customer id: %d", ticket.CustomerID)
	}
}

func TestCustomerHistoryNewestFirst(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	// The ticking clock guarantees distinct created_at stamps.
	first, err := s.CreateTicket(ctx, 3, "older issue", "low")
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}
	second, err := s.CreateTicket(ctx, 3, "newer issue", "medium")
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}
	if !(second.CreatedAt > first.CreatedAt) {
		t.Fatalf("clock not advancing: %q then %q", first.CreatedAt, second.CreatedAt)
	}

	history, err := s.CustomerHistory(ctx, 3)
	if err != nil {
		t.Fatalf("CustomerHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(history))
	}
	if history[0].Issue != "newer issue" || history[1].Issue != "older issue" {
		t.Fatalf("expected newest first, got %q then %q", history[0].Issue, history[1].Issue)
	}
}

func TestCustomerHistoryEmpty(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	history, err := s.CustomerHistory(context.Background(), 777777)
	if err != nil {
		t.Fatalf("CustomerHistory() error = %v", err)
	}
	if history == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(history) != 0 {
		t.Fatalf("expected no tickets, got %d", len(history))
	}
}

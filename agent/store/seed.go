package store

import (
	"context"
	"fmt"
)

// Reset drops and recreates both tables. The schema carries no foreign
// key constraint: a ticket may reference a customer id that does not
// exist.
func (s *Store) Reset(ctx context.Context) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	for _, model := range []any{(*Ticket)(nil), (*Customer)(nil)} {
		if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	for _, model := range []any{(*Customer)(nil), (*Ticket)(nil)} {
		if _, err := db.NewCreateTable().Model(model).Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// Seed resets the store and loads the deterministic demo dataset:
// six customers with explicit ids and seven tickets. Every cold start
// goes through here; there is no migration path.
func (s *Store) Seed(ctx context.Context) error {
	if err := s.Reset(ctx); err != nil {
		return err
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	now := s.stamp()

	customers := []Customer{
		{ID: 1, Name: "Alice Premium", Email: "alice@example.com", Phone: "111-111-1111", Status: "active", CreatedAt: now, UpdatedAt: now},
		{ID: 2, Name: "Bob Standard", Email: "bob@example.com", Phone: "222-222-2222", Status: "active", CreatedAt: now, UpdatedAt: now},
		{ID: 3, Name: "Charlie Disabled", Email: "charlie@example.com", Phone: "333-333-3333", Status: "disabled", CreatedAt: now, UpdatedAt: now},
		{ID: 4, Name: "Diana Premium", Email: "diana@example.com", Phone: "444-444-4444", Status: "active", CreatedAt: now, UpdatedAt: now},
		{ID: 5, Name: "Eve Standard", Email: "eve@example.com", Phone: "555-555-5555", Status: "active", CreatedAt: now, UpdatedAt: now},
		{ID: 12345, Name: "Priya Patel (Premium)", Email: "priya@example.com", Phone: "555-0999", Status: "active", CreatedAt: now, UpdatedAt: now},
	}
	if _, err := db.NewInsert().Model(&customers).Exec(ctx); err != nil {
		return fmt.Errorf("seed customers: %w", err)
	}

	tickets := []Ticket{
		{CustomerID: 1, Issue: "Billing duplicate charge", Status: "open", Priority: "high", CreatedAt: now},
		{CustomerID: 1, Issue: "Unable to login", Status: "in_progress", Priority: "medium", CreatedAt: now},
		{CustomerID: 2, Issue: "Request upgrade", Status: "open", Priority: "low", CreatedAt: now},
		{CustomerID: 4, Issue: "Critical outage", Status: "open", Priority: "high", CreatedAt: now},
		{CustomerID: 5, Issue: "Password reset", Status: "open", Priority: "low", CreatedAt: now},
		{CustomerID: 12345, Issue: "Account upgrade assistance", Status: "open", Priority: "medium", CreatedAt: now},
		{CustomerID: 12345, Issue: "High priority refund review", Status: "open", Priority: "high", CreatedAt: now},
	}
	if _, err := db.NewInsert().Model(&tickets).Exec(ctx); err != nil {
		return fmt.Errorf("seed tickets: %w", err)
	}
	return nil
}

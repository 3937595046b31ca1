package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"

	contractx "github.com/helpmesh/helpmesh/agent/contract"
)

// allow-list for update_customer; anything else is silently dropped.
var updatableFields = []string{"name", "email", "phone", "status"}

var validPriorities = map[string]struct{}{
	"low":    {},
	"medium": {},
	"high":   {},
}

// Store gives keyed access to customers and tickets. It holds no open
// connection: every operation opens its own handle and closes it before
// returning, so no handle is ever held across a caller's reasoning step.
type Store struct {
	dsn string
	now func() time.Time
}

type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Store for the given DSN. A postgres:// or postgresql://
// DSN selects the pg backend; anything else is treated as a sqlite file
// path.
func New(dsn string, opts ...Option) (*Store, error) {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return nil, errors.New("store dsn is required")
	}
	s := &Store{
		dsn: trimmed,
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *Store) open() (*bun.DB, error) {
	if strings.HasPrefix(s.dsn, "postgres://") || strings.HasPrefix(s.dsn, "postgresql://") {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(s.dsn)))
		return bun.NewDB(sqldb, pgdialect.New()), nil
	}
	sqldb, err := sql.Open(sqliteshim.ShimName, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite file: %w", err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(TimeLayout)
}

// GetCustomer fetches one customer row by id.
func (s *Store) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	c := new(Customer)
	err = db.NewSelect().Model(c).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundf("Customer %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("select customer: %w", err)
	}
	return c, nil
}

// ListCustomers returns customers in insertion order (by id), optionally
// filtered by exact status match, truncated to limit.
func (s *Store) ListCustomers(ctx context.Context, status string, limit int) ([]Customer, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var customers []Customer
	q := db.NewSelect().Model(&customers).OrderExpr("id ASC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	if customers == nil {
		customers = []Customer{}
	}
	return customers, nil
}

// UpdateCustomer applies allow-listed fields from the given map and
// refreshes updated_at. Unknown fields are dropped before the emptiness
// check, so a map of only unknown fields fails validation.
func (s *Store) UpdateCustomer(ctx context.Context, id int64, fields map[string]any) (*Customer, error) {
	applied := make(map[string]any, len(updatableFields))
	for _, k := range updatableFields {
		if v, ok := fields[k]; ok {
			applied[k] = v
		}
	}
	if len(applied) == 0 {
		return nil, validationf("No valid fields to update")
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := db.NewUpdate().Model((*Customer)(nil)).Where("id = ?", id)
	for _, k := range updatableFields {
		if v, ok := applied[k]; ok {
			q = q.Set("? = ?", bun.Ident(k), v)
		}
	}
	q = q.Set("updated_at = ?", s.stamp())
	if _, err := q.Exec(ctx); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}

	c := new(Customer)
	err = db.NewSelect().Model(c).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundf("Customer %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("reload customer: %w", err)
	}
	return c, nil
}

// CreateTicket inserts a new ticket with status "open". The priority is
// lower-cased and must be low, medium, or high. The customer id is not
// checked against the customers table.
func (s *Store) CreateTicket(ctx context.Context, customerID int64, issue, priority string) (*Ticket, error) {
	p := strings.ToLower(strings.TrimSpace(priority))
	if p == "" {
		p = "medium"
	}
	if _, ok := validPriorities[p]; !ok {
		return nil, validationf("Priority must be 'low', 'medium', or 'high'")
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	t := &Ticket{
		CustomerID: customerID,
		Issue:      issue,
		Status:     "open",
		Priority:   p,
		CreatedAt:  s.stamp(),
	}
	if _, err := db.NewInsert().Model(t).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert ticket: %w", err)
	}
	return t, nil
}

// CustomerHistory returns all tickets for a customer, newest first.
// A customer with no tickets yields an empty slice, not an error.
func (s *Store) CustomerHistory(ctx context.Context, customerID int64) ([]Ticket, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var tickets []Ticket
	err = db.NewSelect().
		Model(&tickets).
		Where("customer_id = ?", customerID).
		OrderExpr("created_at DESC").
		OrderExpr("id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select tickets: %w", err)
	}
	if tickets == nil {
		tickets = []Ticket{}
	}
	return tickets, nil
}

// statusError carries an exact user-facing message while still matching
// the contract sentinels through errors.Is.
type statusError struct {
	kind error
	msg  string
}

func (e *statusError) Error() string { return e.msg }
func (e *statusError) Unwrap() error { return e.kind }

func notFoundf(format string, args ...any) error {
	return &statusError{kind: contractx.ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...any) error {
	return &statusError{kind: contractx.ErrValidation, msg: fmt.Sprintf(format, args...)}
}

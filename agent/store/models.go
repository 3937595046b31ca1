package store

import "github.com/uptrace/bun"

// Timestamps are stored as TEXT in a fixed-width ISO-8601 UTC layout so
// lexicographic order equals chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

type Customer struct {
	bun.BaseModel `bun:"table:customers" json:"-"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	Name      string `bun:"name" json:"name"`
	Email     string `bun:"email" json:"email"`
	Phone     string `bun:"phone" json:"phone"`
	Status    string `bun:"status" json:"status"`
	CreatedAt string `bun:"created_at" json:"created_at"`
	UpdatedAt string `bun:"updated_at" json:"updated_at"`
}

type Ticket struct {
	bun.BaseModel `bun:"table:tickets" json:"-"`

	ID         int64  `bun:"id,pk,autoincrement" json:"id"`
	CustomerID int64  `bun:"customer_id" json:"customer_id"`
	Issue      string `bun:"issue" json:"issue"`
	Status     string `bun:"status" json:"status"`
	Priority   string `bun:"priority" json:"priority"`
	CreatedAt  string `bun:"created_at" json:"created_at"`
}

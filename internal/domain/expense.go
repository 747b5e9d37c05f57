package domain

import "time"

// Expense is the domain entity for a single expense record.
// It does not depend on Gin, Postgres or Redis.
type Expense struct {
	ID       int64
	OwnerID  int64
	Category string
	Amount   float64
	Title    string
	Date     time.Time

	CreatedAt time.Time
}

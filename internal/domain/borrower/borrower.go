// Package borrower holds the borrower accounts. Borrowers are user accounts
// flagged with IsBorrower; IsBorrowerActive controls whether new loans may be
// issued to them.
package borrower

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound = errors.New("borrower not found")

	ErrDuplicateEmail = errors.New("borrower email already registered")
)

type Borrower struct {
	ID               int64
	Email            string
	FirstName        string
	LastName         string
	IsBorrower       bool
	IsBorrowerActive bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FullName returns the display name used in lists and event payloads.
func (b *Borrower) FullName() string {
	return fmt.Sprintf("%s %s", b.FirstName, b.LastName)
}

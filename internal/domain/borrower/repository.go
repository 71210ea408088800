package borrower

import "context"

type Repository interface {
	Save(ctx context.Context, b *Borrower) error

	FindByID(ctx context.Context, borrowerID int64) (*Borrower, error)

	FindByEmail(ctx context.Context, email string) (*Borrower, error)

	FindAll(ctx context.Context, activeOnly bool) ([]*Borrower, error)

	SetActiveStatus(ctx context.Context, borrowerID int64, active bool) error
}

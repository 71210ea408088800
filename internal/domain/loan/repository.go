package loan

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"sharky/internal/domain/funding"
)

// SourceKindCounts is the per-kind loan count used by the dashboard's
// funding breakdown graph.
type SourceKindCounts struct {
	Savings    int64
	CreditCard int64
	CashLoan   int64
}

type Repository interface {
	// CreateLoan persists the loan, its funding allocations and the
	// capital-source payment schedules in one transaction.
	CreateLoan(ctx context.Context, newLoan *Loan, payments []funding.CapitalSourcePayment) (*Loan, error)

	GetLoanByID(ctx context.Context, loanID int64) (*Loan, error)

	ListActiveLoans(ctx context.Context) ([]*Loan, error)

	GetScheduleByLoanID(ctx context.Context, loanID int64) ([]Amortization, error)

	ListPastDue(ctx context.Context, asOf time.Time) ([]Amortization, error)

	CountUnpaidEntries(ctx context.Context, loanID int64) (int, error)

	// LockLoanForUpdate loads the loan row under FOR UPDATE so that schedule
	// generation, payments and pre-termination serialize per loan.
	LockLoanForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*Loan, error)

	CountScheduleEntriesInTx(ctx context.Context, tx pgx.Tx, loanID int64) (int, error)

	InsertScheduleInTx(ctx context.Context, tx pgx.Tx, schedule []Amortization) error

	FindOldestUnpaidEntryForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*Amortization, error)

	MarkEntryPaidInTx(ctx context.Context, tx pgx.Tx, entryID int64, paidDate time.Time) error

	CountUnpaidEntriesInTx(ctx context.Context, tx pgx.Tx, loanID int64) (int, error)

	// PreTerminateUnpaidInTx overwrites every unpaid installment of the loan
	// with the settlement amount and stamps it paid and preterminated.
	PreTerminateUnpaidInTx(ctx context.Context, tx pgx.Tx, loanID int64, amountDue decimal.Decimal, paidDate time.Time) (int64, error)

	SetLoanCompletedInTx(ctx context.Context, tx pgx.Tx, loanID int64) error

	// SumInterestGainedForMonth totals the gained amount of distinct loans
	// that have a non-principal-only, non-preterminated installment due in
	// the given month.
	SumInterestGainedForMonth(ctx context.Context, year int, month time.Month) (decimal.Decimal, error)

	// ListSavingsFundedLoansDueIn returns the distinct loans, sources
	// loaded, that have a non-interest-only installment due in the given
	// month and are funded by a savings capital source.
	ListSavingsFundedLoansDueIn(ctx context.Context, year int, month time.Month) ([]*Loan, error)

	CountLoansBySourceKind(ctx context.Context) (SourceKindCounts, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}

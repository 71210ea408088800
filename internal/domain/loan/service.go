package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"sharky/internal/domain/borrower"
	"sharky/internal/domain/funding"
	"sharky/internal/event"
	"sharky/internal/infrastructure/monitoring"
	"sharky/internal/pkg/apperrors"
	"sharky/internal/pkg/money"
)

// EarningsPoint is one month of the dashboard earnings series.
type EarningsPoint struct {
	Label               string
	Month               time.Time
	InterestGained      decimal.Decimal
	PrincipalReceivable int64
}

// PortfolioSummary carries the headline dashboard figures. Receivables are
// floored, payables are ceiled; the asymmetry is deliberate.
type PortfolioSummary struct {
	ActiveLoanCount           int
	TotalInterestGained       int64
	TotalPrincipalReceivables int64
	TotalPayableOutstanding   int64
}

type LoanService interface {
	CreateLoan(ctx context.Context, borrowerID int64, amount, interestRate decimal.Decimal, term int, schedule PaymentSchedule, firstPaymentDate, loanDate time.Time, allocations []funding.LoanSource) (*Loan, error)

	GetLoan(ctx context.Context, loanID int64) (*Loan, error)

	ListActiveLoans(ctx context.Context) ([]*Loan, error)

	GetLoanSchedule(ctx context.Context, loanID int64) ([]Amortization, error)

	// GenerateAmortization creates the full installment schedule for a loan.
	// Regenerating an existing schedule is rejected with ErrScheduleExists.
	GenerateAmortization(ctx context.Context, loanID int64) ([]Amortization, error)

	// RecordPayment marks the oldest unpaid installment paid. Paying the
	// final installment completes the loan.
	RecordPayment(ctx context.Context, loanID int64, paidDate time.Time) error

	// PreTerminate settles a loan early: every unpaid installment is
	// overwritten with the flat settlement amount and stamped paid. Invoking
	// it on a completed loan is a no-op.
	PreTerminate(ctx context.Context, loanID int64, now time.Time) error

	ListPastDue(ctx context.Context, asOf time.Time) ([]Amortization, error)

	EarningsSeries(ctx context.Context, now time.Time) ([]EarningsPoint, error)

	LoanSourceBreakdown(ctx context.Context) (SourceKindCounts, error)

	Summary(ctx context.Context) (*PortfolioSummary, error)
}

type loanServiceImpl struct {
	repo            Repository
	borrowerService borrower.BorrowerService
	fundingService  funding.FundingService
	events          event.EventPublisher
	logger          *slog.Logger
}

func NewLoanService(r Repository, bs borrower.BorrowerService, fs funding.FundingService, pub event.EventPublisher, logger *slog.Logger) LoanService {
	return &loanServiceImpl{repo: r, borrowerService: bs, fundingService: fs, events: pub, logger: logger}
}

func (s *loanServiceImpl) CreateLoan(ctx context.Context, borrowerID int64, amount, interestRate decimal.Decimal, term int, schedule PaymentSchedule, firstPaymentDate, loanDate time.Time, allocations []funding.LoanSource) (*Loan, error) {
	s.logger.Info("Creating new loan", "borrowerID", borrowerID)

	b, err := s.borrowerService.GetBorrower(ctx, borrowerID)
	if err != nil {
		if errors.Is(err, borrower.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Error("Borrower not found", slog.Any("error", err))
			return nil, fmt.Errorf("%w: borrower %d not found", apperrors.ErrValidation, borrowerID)
		}
		s.logger.Error("Failed to get borrower details", slog.Any("error", err))
		return nil, fmt.Errorf("failed to verify borrower status: %w", err)
	}
	if !b.IsBorrower || !b.IsBorrowerActive {
		s.logger.Error("Attempted to create loan for inactive borrower", "borrowerID", borrowerID)
		return nil, fmt.Errorf("%w: borrower %d is not an active borrower", apperrors.ErrValidation, borrowerID)
	}

	newLoan, err := NewLoan(borrowerID, amount, interestRate, term, schedule, firstPaymentDate, loanDate)
	if err != nil {
		s.logger.Error("Failed to create new loan object", "error", err)
		return nil, err
	}

	if err := s.attachAllocations(ctx, newLoan, allocations); err != nil {
		return nil, err
	}

	payments, err := s.capitalSourcePayments(newLoan.Sources)
	if err != nil {
		return nil, err
	}

	createdLoan, err := s.repo.CreateLoan(ctx, newLoan, payments)
	if err != nil {
		s.logger.Error("Failed to save loan", "error", err)
		return nil, fmt.Errorf("%w: failed to save loan: %v", apperrors.ErrInternalServer, err)
	}

	s.logger.Info("Loan created successfully", "loanID", createdLoan.ID, "borrowerID", borrowerID)
	return createdLoan, nil
}

// attachAllocations validates the funding allocations against the loan and
// resolves their capital sources. When allocations are present their amounts
// must sum exactly to the loan amount.
func (s *loanServiceImpl) attachAllocations(ctx context.Context, l *Loan, allocations []funding.LoanSource) error {
	if len(allocations) == 0 {
		return nil
	}

	total := decimal.Zero
	for i := range allocations {
		if !allocations[i].Amount.IsPositive() {
			return fmt.Errorf("%w: funding allocation amount must be positive", apperrors.ErrValidation)
		}
		source, err := s.fundingService.GetCapitalSource(ctx, allocations[i].CapitalSourceID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: capital source %d not found", apperrors.ErrValidation, allocations[i].CapitalSourceID)
			}
			return fmt.Errorf("failed to resolve capital source %d: %w", allocations[i].CapitalSourceID, err)
		}
		allocations[i].Source = source
		total = total.Add(allocations[i].Amount)
	}

	if !total.Equal(l.Amount) {
		s.logger.Error("Funding allocations do not cover the loan amount", "allocated", total, "amount", l.Amount)
		return fmt.Errorf("%w: funding allocations total %s must equal loan amount %s",
			apperrors.ErrValidation, total.StringFixed(2), l.Amount.StringFixed(2))
	}

	l.Sources = allocations
	return nil
}

func (s *loanServiceImpl) capitalSourcePayments(sources []funding.LoanSource) ([]funding.CapitalSourcePayment, error) {
	var payments []funding.CapitalSourcePayment
	for i := range sources {
		p, err := sources[i].GeneratePaymentSchedule()
		if err != nil {
			s.logger.Error("Failed to build capital source payment schedule", "capitalSourceID", sources[i].CapitalSourceID, "error", err)
			return nil, err
		}
		payments = append(payments, p...)
	}
	return payments, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*Loan, error) {
	l, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("Loan not found", "loanID", loanID)
			return nil, fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, loanID)
		}
		s.logger.Error("Failed to get loan", "loanID", loanID, "error", err)
		return nil, fmt.Errorf("%w: failed to get loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	schedule, err := s.repo.GetScheduleByLoanID(ctx, loanID)
	if err != nil {
		s.logger.Error("Failed to get loan schedule", "loanID", loanID, "error", err)
		return nil, fmt.Errorf("%w: failed to get schedule for loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}
	l.Amortizations = schedule
	return l, nil
}

func (s *loanServiceImpl) ListActiveLoans(ctx context.Context) ([]*Loan, error) {
	loans, err := s.repo.ListActiveLoans(ctx)
	if err != nil {
		s.logger.Error("Failed to list active loans", "error", err)
		return nil, fmt.Errorf("%w: failed to list active loans: %v", apperrors.ErrInternalServer, err)
	}
	return loans, nil
}

func (s *loanServiceImpl) GetLoanSchedule(ctx context.Context, loanID int64) ([]Amortization, error) {
	schedule, err := s.repo.GetScheduleByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get schedule for loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}
	if len(schedule) == 0 {
		if _, checkErr := s.repo.GetLoanByID(ctx, loanID); errors.Is(checkErr, pgx.ErrNoRows) || errors.Is(checkErr, apperrors.ErrNotFound) {
			s.logger.Warn("Loan not found", "loanID", loanID)
			return nil, fmt.Errorf("%w: loan with ID %d not found when getting schedule", apperrors.ErrNotFound, loanID)
		}
	}
	return schedule, nil
}

func (s *loanServiceImpl) GenerateAmortization(ctx context.Context, loanID int64) (schedule []Amortization, err error) {
	s.logger.Info("Generating amortization schedule", "loanID", loanID)
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("Failed to begin transaction", "error", err)
		return nil, fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}

	defer func() {
		status := "success"
		switch {
		case errors.Is(err, apperrors.ErrScheduleExists):
			status = "failure_exists"
		case errors.Is(err, apperrors.ErrLoanCompleted):
			status = "failure_completed"
		case err != nil:
			status = "failure_internal"
		}
		monitoring.RecordScheduleGeneration(status)
		if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	l, err := s.repo.LockLoanForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, loanID)
		}
		return nil, fmt.Errorf("%w: could not lock loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}
	if l.IsCompleted {
		return nil, apperrors.ErrLoanCompleted
	}

	existing, err := s.repo.CountScheduleEntriesInTx(ctx, tx, loanID)
	if err != nil {
		return nil, fmt.Errorf("%w: could not count existing schedule entries: %v", apperrors.ErrInternalServer, err)
	}
	if existing > 0 {
		s.logger.Warn("Loan already has a schedule, rejecting regeneration", "loanID", loanID, "entries", existing)
		return nil, apperrors.ErrScheduleExists
	}

	schedule, err = l.GenerateSchedule()
	if err != nil {
		s.logger.Error("Failed to generate schedule", "loanID", loanID, "error", err)
		return nil, err
	}

	if err = s.repo.InsertScheduleInTx(ctx, tx, schedule); err != nil {
		return nil, fmt.Errorf("%w: could not insert schedule: %v", apperrors.ErrInternalServer, err)
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
	}

	s.logger.Info("Amortization schedule generated", "loanID", loanID, "entries", len(schedule))
	return schedule, nil
}

func (s *loanServiceImpl) RecordPayment(ctx context.Context, loanID int64, paidDate time.Time) (err error) {
	s.logger.Info("Recording payment", "loanID", loanID)
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("Failed to begin transaction", "error", err)
		return fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}

	defer func() {
		status := "success"
		if errors.Is(err, apperrors.ErrLoanCompleted) {
			status = "failure_completed"
		} else if err != nil {
			status = "failure_internal"
		}
		monitoring.RecordPayment(status)
		if p := recover(); p != nil {
			s.logger.Error("Panic occurred during payment processing", "loanID", loanID, "error", p)
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		} else if err != nil {
			s.logger.Error("Rolling back transaction due to error :", "error", err)
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	l, err := s.repo.LockLoanForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: cannot record payment, loan ID %d not found", apperrors.ErrNotFound, loanID)
		}
		return fmt.Errorf("%w: could not lock loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}
	if l.IsCompleted {
		return apperrors.ErrLoanCompleted
	}

	entry, err := s.repo.FindOldestUnpaidEntryForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrLoanCompleted
		}
		return fmt.Errorf("%w: could not find installment to pay: %v", apperrors.ErrInternalServer, err)
	}

	if err = s.repo.MarkEntryPaidInTx(ctx, tx, entry.ID, paidDate); err != nil {
		return fmt.Errorf("%w: could not mark installment paid: %v", apperrors.ErrInternalServer, err)
	}

	unpaid, err := s.repo.CountUnpaidEntriesInTx(ctx, tx, loanID)
	if err != nil {
		return fmt.Errorf("%w: could not check remaining installments: %v", apperrors.ErrInternalServer, err)
	}

	completed := unpaid == 0
	if completed {
		if err = s.repo.SetLoanCompletedInTx(ctx, tx, loanID); err != nil {
			return fmt.Errorf("%w: could not mark loan completed: %v", apperrors.ErrInternalServer, err)
		}
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
	}

	if completed {
		s.publishLoanCompleted(ctx, l, paidDate, false)
	}

	s.logger.Info("Payment recorded", "loanID", loanID, "installmentID", entry.ID, "loanCompleted", completed)
	return nil
}

func (s *loanServiceImpl) PreTerminate(ctx context.Context, loanID int64, now time.Time) (err error) {
	s.logger.Info("Pre-terminating loan", "loanID", loanID)
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("Failed to begin transaction", "error", err)
		return fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}

	defer func() {
		if err != nil {
			monitoring.RecordPreTermination("failure")
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	l, err := s.repo.LockLoanForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: cannot pre-terminate, loan ID %d not found", apperrors.ErrNotFound, loanID)
		}
		return fmt.Errorf("%w: could not lock loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	if l.IsCompleted {
		// Nothing left to settle; repeated invocations are harmless.
		s.logger.Info("Loan already completed, pre-termination is a no-op", "loanID", loanID)
		_ = s.repo.RollbackTx(ctx, tx)
		return nil
	}

	value := l.PreTerminationAmount()
	updated, err := s.repo.PreTerminateUnpaidInTx(ctx, tx, loanID, value, now)
	if err != nil {
		return fmt.Errorf("%w: could not settle remaining installments: %v", apperrors.ErrInternalServer, err)
	}

	if err = s.repo.SetLoanCompletedInTx(ctx, tx, loanID); err != nil {
		return fmt.Errorf("%w: could not mark loan completed: %v", apperrors.ErrInternalServer, err)
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordPreTermination("success")
	s.publishLoanCompleted(ctx, l, now, true)
	s.logger.Info("Loan pre-terminated", "loanID", loanID, "settledInstallments", updated, "amountPerInstallment", value)
	return nil
}

func (s *loanServiceImpl) publishLoanCompleted(ctx context.Context, l *Loan, completedAt time.Time, preterminated bool) {
	if s.events == nil {
		return
	}
	evt := event.LoanCompletedEvent{
		LoanID:        l.ID,
		BorrowerID:    l.BorrowerID,
		Preterminated: preterminated,
		CompletedAt:   completedAt,
	}
	if pubErr := s.events.PublishLoanCompleted(ctx, evt); pubErr != nil {
		s.logger.Error("Loan completed, but FAILED to publish completion event", "loanID", l.ID, slog.Any("error", pubErr))
	}
}

func (s *loanServiceImpl) ListPastDue(ctx context.Context, asOf time.Time) ([]Amortization, error) {
	pastDue, err := s.repo.ListPastDue(ctx, asOf)
	if err != nil {
		s.logger.Error("Failed to list past due installments", "error", err)
		return nil, fmt.Errorf("%w: failed to list past due installments: %v", apperrors.ErrInternalServer, err)
	}
	return pastDue, nil
}

// EarningsSeries returns twelve months of interest earned and principal
// receivable, starting five months back from now, for the dashboard graph.
// Stepping starts from the first of the month: AddDate on a day-29..31 date
// normalizes into the next month and would skip or repeat months.
func (s *loanServiceImpl) EarningsSeries(ctx context.Context, now time.Time) ([]EarningsPoint, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -5, 0)
	points := make([]EarningsPoint, 0, 12)

	for i := 0; i < 12; i++ {
		month := start.AddDate(0, i, 0)

		interest, err := s.repo.SumInterestGainedForMonth(ctx, month.Year(), month.Month())
		if err != nil {
			s.logger.Error("Failed to sum interest gained", "month", month.Format("Jan 2006"), "error", err)
			return nil, fmt.Errorf("%w: failed to compute earnings series: %v", apperrors.ErrInternalServer, err)
		}

		loans, err := s.repo.ListSavingsFundedLoansDueIn(ctx, month.Year(), month.Month())
		if err != nil {
			s.logger.Error("Failed to list savings-funded loans", "month", month.Format("Jan 2006"), "error", err)
			return nil, fmt.Errorf("%w: failed to compute earnings series: %v", apperrors.ErrInternalServer, err)
		}

		var principal int64
		for _, l := range loans {
			unpaid, err := s.repo.CountUnpaidEntries(ctx, l.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: failed to compute earnings series: %v", apperrors.ErrInternalServer, err)
			}
			principal += l.TotalPrincipalReceivables(unpaid)
		}

		points = append(points, EarningsPoint{
			Label:               month.Format("Jan 2006"),
			Month:               month,
			InterestGained:      interest,
			PrincipalReceivable: principal,
		})
	}

	return points, nil
}

func (s *loanServiceImpl) LoanSourceBreakdown(ctx context.Context) (SourceKindCounts, error) {
	counts, err := s.repo.CountLoansBySourceKind(ctx)
	if err != nil {
		s.logger.Error("Failed to count loans by source kind", "error", err)
		return SourceKindCounts{}, fmt.Errorf("%w: failed to count loans by source kind: %v", apperrors.ErrInternalServer, err)
	}
	return counts, nil
}

func (s *loanServiceImpl) Summary(ctx context.Context) (*PortfolioSummary, error) {
	loans, err := s.repo.ListActiveLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list active loans for summary: %v", apperrors.ErrInternalServer, err)
	}

	interest := decimal.Zero
	var principal int64
	for _, l := range loans {
		interest = interest.Add(l.InterestGained())
		unpaid, err := s.repo.CountUnpaidEntries(ctx, l.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to count unpaid installments for summary: %v", apperrors.ErrInternalServer, err)
		}
		principal += l.TotalPrincipalReceivables(unpaid)
	}

	payable, err := s.fundingService.TotalPayableOutstanding(ctx)
	if err != nil {
		return nil, err
	}

	return &PortfolioSummary{
		ActiveLoanCount:           len(loans),
		TotalInterestGained:       money.FloorToInt(interest),
		TotalPrincipalReceivables: principal,
		TotalPayableOutstanding:   money.CeilToInt(payable),
	}, nil
}

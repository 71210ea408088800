package loan

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"sharky/internal/domain/funding"
	"sharky/internal/pkg/apperrors"
	"sharky/internal/pkg/money"
)

type PaymentSchedule string

const (
	ScheduleMonthly   PaymentSchedule = "monthly"
	ScheduleBiMonthly PaymentSchedule = "bi_monthly"
)

func (s PaymentSchedule) Valid() bool {
	return s == ScheduleMonthly || s == ScheduleBiMonthly
}

type AmortizationType string

const (
	TypeFullPayment   AmortizationType = "full_payment"
	TypeInterestOnly  AmortizationType = "interest_only"
	TypePrincipalOnly AmortizationType = "principal_only"
)

// Loan is the central aggregate. Amount is the principal, InterestRate a
// percentage per month, Term the number of months. A loan is funded by one
// or more capital-source allocations whose amounts must sum to Amount.
type Loan struct {
	ID               int64
	BorrowerID       int64
	Amount           decimal.Decimal
	InterestRate     decimal.Decimal
	Term             int
	PaymentSchedule  PaymentSchedule
	FirstPaymentDate time.Time
	LoanDate         time.Time
	IsCompleted      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Sources          []funding.LoanSource
	Amortizations    []Amortization
}

// Amortization is one scheduled installment obligation of a loan. PaidDate
// is nil while unpaid. AmountGained is the business's net earning carried on
// the installment.
type Amortization struct {
	ID              int64
	LoanID          int64
	AmountDue       decimal.Decimal
	Type            AmortizationType
	DueDate         time.Time
	PaidDate        *time.Time
	IsPreterminated bool
	AmountGained    decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (a *Amortization) IsPaid() bool {
	return a.PaidDate != nil
}

func NewLoan(borrowerID int64, amount, interestRate decimal.Decimal, term int, schedule PaymentSchedule, firstPaymentDate, loanDate time.Time) (*Loan, error) {
	if borrowerID <= 0 {
		return nil, fmt.Errorf("%w: borrower is required", apperrors.ErrInvalidArgument)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: loan amount must be positive", apperrors.ErrInvalidArgument)
	}
	if !interestRate.IsPositive() {
		return nil, fmt.Errorf("%w: interest rate must be positive", apperrors.ErrInvalidArgument)
	}
	if term <= 0 {
		return nil, fmt.Errorf("%w: term must be a positive number of months", apperrors.ErrInvalidArgument)
	}
	if !schedule.Valid() {
		return nil, fmt.Errorf("%w: unknown payment schedule %q", apperrors.ErrInvalidArgument, schedule)
	}
	if loanDate.IsZero() {
		loanDate = time.Now().Truncate(24 * time.Hour)
	}
	if firstPaymentDate.IsZero() {
		firstPaymentDate = loanDate
	}

	return &Loan{
		BorrowerID:       borrowerID,
		Amount:           amount,
		InterestRate:     interestRate,
		Term:             term,
		PaymentSchedule:  schedule,
		FirstPaymentDate: firstPaymentDate,
		LoanDate:         loanDate,
	}, nil
}

// PeriodCount is the number of installments: one per month, or two per month
// on the bi-monthly schedule.
func (l *Loan) PeriodCount() int {
	if l.PaymentSchedule == ScheduleBiMonthly {
		return l.Term * 2
	}
	return l.Term
}

// PrincipalAmount is the principal share of a single month.
func (l *Loan) PrincipalAmount() decimal.Decimal {
	return money.Round2(l.Amount.Div(decimal.NewFromInt(int64(l.Term))))
}

// InterestAmount is the interest earned from the loan in one month.
func (l *Loan) InterestAmount() decimal.Decimal {
	return money.ApplyPercentage(l.Amount, l.InterestRate)
}

// TotalInterest is the interest earned over the full term.
func (l *Loan) TotalInterest() decimal.Decimal {
	return money.Round2(l.InterestAmount().Mul(decimal.NewFromInt(int64(l.Term))))
}

// AmortizationAmountDue is the fixed per-installment payment: a flat
// principal share plus the simple interest for the period. This is not a
// compounding amortization formula.
func (l *Loan) AmortizationAmountDue() decimal.Decimal {
	periods := decimal.NewFromInt(int64(l.PeriodCount()))
	principal := l.Amount.Div(periods)

	interest := l.InterestAmount()
	if l.PaymentSchedule == ScheduleBiMonthly {
		interest = interest.Div(decimal.NewFromInt(2))
	}

	return money.Round2(principal.Add(interest))
}

// InterestGained is the business's net spread: total interest earned from
// the borrower minus what the funding sources charge.
func (l *Loan) InterestGained() decimal.Decimal {
	return money.Round2(l.TotalInterest().Sub(funding.TotalInterestCost(l.Sources)))
}

// TotalPrincipalReceivables reports how much of the business's own savings
// is still out with the borrower, given how many installments remain unpaid.
// Only self-funded savings allocations count; loans funded entirely by third
// parties or borrowed capital report 0. Floored to a whole amount for
// summary display.
func (l *Loan) TotalPrincipalReceivables(remainingUnpaid int) int64 {
	if remainingUnpaid <= 0 {
		return 0
	}

	total := decimal.Zero
	term := decimal.NewFromInt(int64(l.Term))
	remaining := decimal.NewFromInt(int64(remainingUnpaid))
	for i := range l.Sources {
		if !l.Sources[i].IsSelfFundedSavings() {
			continue
		}
		receivable := l.Sources[i].Amount.Div(term).Mul(remaining)
		if l.PaymentSchedule == ScheduleBiMonthly {
			receivable = receivable.Div(decimal.NewFromInt(2))
		}
		total = total.Add(receivable)
	}
	return money.FloorToInt(total)
}

// PreTerminationAmount is what each remaining installment is overwritten
// with when the borrower settles early: a flat 1% fee on the principal plus
// one principal share.
func (l *Loan) PreTerminationAmount() decimal.Decimal {
	onePercent := money.ApplyPercentage(l.Amount, decimal.NewFromInt(1))
	return money.Round2(onePercent.Add(l.PrincipalAmount()))
}

// GenerateSchedule expands the loan into its dated installments. The first
// installment is due on FirstPaymentDate; monthly schedules step one
// calendar month, bi-monthly schedules step a fixed 15 days (which drifts
// against true half-months over a year; that drift is accepted). Every
// installment carries the same amount due and the same gained amount.
func (l *Loan) GenerateSchedule() ([]Amortization, error) {
	if l.Term <= 0 {
		return nil, fmt.Errorf("%w: invalid loan terms for schedule generation", apperrors.ErrInvalidArgument)
	}

	count := l.PeriodCount()
	amountDue := l.AmortizationAmountDue()
	amountGained := l.InterestGained()

	schedule := make([]Amortization, 0, count)
	dueDate := l.FirstPaymentDate
	for i := 0; i < count; i++ {
		schedule = append(schedule, Amortization{
			LoanID:       l.ID,
			AmountDue:    amountDue,
			Type:         TypeFullPayment,
			DueDate:      dueDate,
			AmountGained: amountGained,
		})

		if l.PaymentSchedule == ScheduleMonthly {
			dueDate = dueDate.AddDate(0, 1, 0)
		} else {
			dueDate = dueDate.AddDate(0, 0, 15)
		}
	}

	// The flat installment times the period count must reconcile with
	// principal plus total interest to within one cent per period.
	scheduledTotal := amountDue.Mul(decimal.NewFromInt(int64(count)))
	expectedTotal := l.Amount.Add(l.TotalInterest())
	tolerance := decimal.New(int64(count), -2)
	if scheduledTotal.Sub(expectedTotal).Abs().GreaterThan(tolerance) {
		return nil, fmt.Errorf("%w: schedule total %s does not reconcile with expected total %s",
			apperrors.ErrInternalServer, scheduledTotal.StringFixed(2), expectedTotal.StringFixed(2))
	}

	return schedule, nil
}

// UnpaidCount counts the unpaid installments currently loaded on the loan.
func (l *Loan) UnpaidCount() int {
	n := 0
	for i := range l.Amortizations {
		if !l.Amortizations[i].IsPaid() {
			n++
		}
	}
	return n
}

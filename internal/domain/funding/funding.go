// Package funding models where the capital behind a loan comes from: the
// banks, the capital sources (the business's own savings, a credit card or a
// cash loan) and the per-loan allocations drawn from them.
package funding

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"sharky/internal/pkg/apperrors"
	"sharky/internal/pkg/money"
)

type SourceKind string

const (
	KindSavings    SourceKind = "savings"
	KindCreditCard SourceKind = "credit_card"
	KindCashLoan   SourceKind = "cash_loan"
)

func (k SourceKind) Valid() bool {
	switch k {
	case KindSavings, KindCreditCard, KindCashLoan:
		return true
	}
	return false
}

// Bank is immutable reference data.
type Bank struct {
	ID           int64
	Name         string
	Abbreviation string
}

// CapitalSource is a funding origin. ProviderID is nil when the source is
// owned by the business itself; otherwise it points at the third party
// (a borrower account) providing the capital.
type CapitalSource struct {
	ID         int64
	Kind       SourceKind
	BankID     int64
	Name       string
	ProviderID *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (cs *CapitalSource) IsSavings() bool {
	return cs.Kind == KindSavings
}

func (cs *CapitalSource) IsSelfFunded() bool {
	return cs.ProviderID == nil
}

// LoanSource allocates part of a loan's principal to a capital source and
// records the terms that source charges the business. InterestRate, Term,
// DayDeadline and LoanReceivedDate only apply to credit-card and cash-loan
// sources.
type LoanSource struct {
	ID               int64
	LoanID           int64
	CapitalSourceID  int64
	Source           *CapitalSource
	Amount           decimal.Decimal
	InterestRate     *decimal.Decimal
	DayDeadline      *int
	Term             *int
	LoanReceivedDate *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// InterestCost is what the business pays this source per term period.
// Savings accounts cost nothing; other sources charge their own rate on the
// allocated amount.
func (ls *LoanSource) InterestCost() decimal.Decimal {
	if ls.Source == nil || ls.Source.IsSavings() || ls.InterestRate == nil {
		return decimal.Zero
	}
	return money.ApplyPercentage(ls.Amount, *ls.InterestRate)
}

func (ls *LoanSource) IsSelfFundedSavings() bool {
	return ls.Source != nil && ls.Source.IsSavings() && ls.Source.IsSelfFunded()
}

// TotalInterestCost folds the interest cost of every allocation in a single
// pass.
func TotalInterestCost(sources []LoanSource) decimal.Decimal {
	total := decimal.Zero
	for i := range sources {
		total = total.Add(sources[i].InterestCost())
	}
	return total
}

// CapitalSourcePayment is one installment of the business's own obligation
// to a non-savings capital source. Its lifecycle is independent from the
// loan's amortization schedule.
type CapitalSourcePayment struct {
	ID           int64
	LoanSourceID int64
	Amount       decimal.Decimal
	DueDate      time.Time
	PaidDate     *time.Time
}

// GeneratePaymentSchedule expands a credit-card or cash-loan allocation into
// the monthly payments the business owes the source. Savings allocations
// have no schedule and return nil.
func (ls *LoanSource) GeneratePaymentSchedule() ([]CapitalSourcePayment, error) {
	if ls.Source == nil || ls.Source.IsSavings() {
		return nil, nil
	}
	if ls.Term == nil || *ls.Term <= 0 {
		return nil, fmt.Errorf("%w: source term must be positive to build a payment schedule", apperrors.ErrInvalidArgument)
	}
	if ls.LoanReceivedDate == nil {
		return nil, fmt.Errorf("%w: source received date is required to build a payment schedule", apperrors.ErrInvalidArgument)
	}

	term := *ls.Term
	principal := money.Round2(ls.Amount.Div(decimal.NewFromInt(int64(term))))
	interest := decimal.Zero
	if ls.InterestRate != nil {
		interest = money.ApplyPercentage(ls.Amount, *ls.InterestRate)
	}
	installment := money.Round2(principal.Add(interest))

	payments := make([]CapitalSourcePayment, 0, term)
	dueDate := ls.LoanReceivedDate.AddDate(0, 1, 0)
	if ls.DayDeadline != nil {
		dueDate = time.Date(dueDate.Year(), dueDate.Month(), *ls.DayDeadline, 0, 0, 0, 0, dueDate.Location())
	}
	for i := 0; i < term; i++ {
		payments = append(payments, CapitalSourcePayment{
			LoanSourceID: ls.ID,
			Amount:       installment,
			DueDate:      dueDate,
		})
		dueDate = dueDate.AddDate(0, 1, 0)
	}
	return payments, nil
}

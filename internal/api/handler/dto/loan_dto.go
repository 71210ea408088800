package dto

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"sharky/internal/domain/funding"
	"sharky/internal/domain/loan"
)

type LoanSourceRequest struct {
	CapitalSourceID  int64   `json:"capitalSourceId"`
	Amount           string  `json:"amount"`
	InterestRate     *string `json:"interestRate,omitempty"`
	DayDeadline      *int    `json:"dayDeadline,omitempty"`
	Term             *int    `json:"term,omitempty"`
	LoanReceivedDate *string `json:"loanReceivedDate,omitempty"`
}

func (r *LoanSourceRequest) Validate() error {
	if r.CapitalSourceID <= 0 {
		return fmt.Errorf("capitalSourceId must be positive")
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil || !amount.IsPositive() {
		return fmt.Errorf("source amount must be a positive number")
	}
	if r.InterestRate != nil {
		if _, err := decimal.NewFromString(*r.InterestRate); err != nil {
			return fmt.Errorf("invalid source interestRate: %w", err)
		}
	}
	if r.Term != nil && *r.Term <= 0 {
		return fmt.Errorf("source term must be positive")
	}
	if r.DayDeadline != nil && (*r.DayDeadline < 1 || *r.DayDeadline > 28) {
		return fmt.Errorf("dayDeadline must be between 1 and 28")
	}
	if r.LoanReceivedDate != nil {
		if _, err := time.Parse(time.RFC3339[:10], *r.LoanReceivedDate); err != nil {
			return fmt.Errorf("invalid loanReceivedDate format (use YYYY-MM-DD): %w", err)
		}
	}
	return nil
}

type CreateLoanRequest struct {
	BorrowerID       int64               `json:"borrowerId"`
	Amount           string              `json:"amount"`
	InterestRate     string              `json:"interestRate"`
	Term             int                 `json:"term"`
	PaymentSchedule  string              `json:"paymentSchedule"`
	FirstPaymentDate string              `json:"firstPaymentDate"`
	LoanDate         string              `json:"loanDate"`
	Sources          []LoanSourceRequest `json:"sources,omitempty"`
}

func (r *CreateLoanRequest) Validate() error {
	if r.BorrowerID <= 0 {
		return fmt.Errorf("borrowerId must be positive")
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil || !amount.IsPositive() {
		return fmt.Errorf("amount must be a positive number")
	}
	rate, err := decimal.NewFromString(r.InterestRate)
	if err != nil || !rate.IsPositive() {
		return fmt.Errorf("interestRate must be a positive number")
	}
	if r.Term <= 0 {
		return fmt.Errorf("term must be a positive number of months")
	}
	if !loan.PaymentSchedule(r.PaymentSchedule).Valid() {
		return fmt.Errorf("paymentSchedule must be %q or %q", loan.ScheduleMonthly, loan.ScheduleBiMonthly)
	}
	if r.LoanDate != "" {
		if _, err := time.Parse(time.RFC3339[:10], r.LoanDate); err != nil {
			return fmt.Errorf("invalid loanDate format (use YYYY-MM-DD): %w", err)
		}
	}
	if r.FirstPaymentDate != "" {
		if _, err := time.Parse(time.RFC3339[:10], r.FirstPaymentDate); err != nil {
			return fmt.Errorf("invalid firstPaymentDate format (use YYYY-MM-DD): %w", err)
		}
	}
	for i := range r.Sources {
		if err := r.Sources[i].Validate(); err != nil {
			return fmt.Errorf("sources[%d]: %w", i, err)
		}
	}
	return nil
}

// Allocations converts the validated source payloads into domain allocations.
func (r *CreateLoanRequest) Allocations() []funding.LoanSource {
	allocations := make([]funding.LoanSource, 0, len(r.Sources))
	for i := range r.Sources {
		src := r.Sources[i]
		amount, _ := decimal.NewFromString(src.Amount)
		allocation := funding.LoanSource{
			CapitalSourceID: src.CapitalSourceID,
			Amount:          amount,
			DayDeadline:     src.DayDeadline,
			Term:            src.Term,
		}
		if src.InterestRate != nil {
			rate, _ := decimal.NewFromString(*src.InterestRate)
			allocation.InterestRate = &rate
		}
		if src.LoanReceivedDate != nil {
			received, _ := time.Parse(time.RFC3339[:10], *src.LoanReceivedDate)
			allocation.LoanReceivedDate = &received
		}
		allocations = append(allocations, allocation)
	}
	return allocations
}

type RecordPaymentRequest struct {
	PaidDate string `json:"paidDate"`
}

func (r *RecordPaymentRequest) Validate() error {
	if r.PaidDate == "" {
		return nil
	}
	if _, err := time.Parse(time.RFC3339[:10], r.PaidDate); err != nil {
		return fmt.Errorf("invalid paidDate format (use YYYY-MM-DD): %w", err)
	}
	return nil
}

type LoanResponse struct {
	ID               string                 `json:"id"`
	BorrowerID       string                 `json:"borrowerId"`
	Amount           string                 `json:"amount"`
	InterestRate     string                 `json:"interestRate"`
	Term             int                    `json:"term"`
	PaymentSchedule  string                 `json:"paymentSchedule"`
	InstallmentDue   string                 `json:"installmentDue"`
	TotalInterest    string                 `json:"totalInterest"`
	InterestGained   string                 `json:"interestGained"`
	FirstPaymentDate string                 `json:"firstPaymentDate"`
	LoanDate         string                 `json:"loanDate"`
	IsCompleted      bool                   `json:"isCompleted"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
	Sources          []LoanSourceResponse   `json:"sources,omitempty"`
	Schedule         []AmortizationResponse `json:"schedule,omitempty"`
}

type LoanSourceResponse struct {
	ID               string  `json:"id"`
	CapitalSourceID  string  `json:"capitalSourceId"`
	Amount           string  `json:"amount"`
	InterestRate     *string `json:"interestRate,omitempty"`
	DayDeadline      *int    `json:"dayDeadline,omitempty"`
	Term             *int    `json:"term,omitempty"`
	LoanReceivedDate *string `json:"loanReceivedDate,omitempty"`
}

type AmortizationResponse struct {
	ID              string  `json:"id"`
	AmountDue       string  `json:"amountDue"`
	Type            string  `json:"type"`
	DueDate         string  `json:"dueDate"`
	PaidDate        *string `json:"paidDate,omitempty"`
	IsPreterminated bool    `json:"isPreterminated"`
	AmountGained    string  `json:"amountGained"`
}

type PastDueResponse struct {
	AmortizationID string `json:"amortizationId"`
	LoanID         string `json:"loanId"`
	AmountDue      string `json:"amountDue"`
	DueDate        string `json:"dueDate"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

func NewLoanResponse(domainLoan *loan.Loan, includeSchedule bool) LoanResponse {
	resp := LoanResponse{
		ID:               strconv.FormatInt(domainLoan.ID, 10),
		BorrowerID:       strconv.FormatInt(domainLoan.BorrowerID, 10),
		Amount:           domainLoan.Amount.StringFixed(2),
		InterestRate:     domainLoan.InterestRate.String(),
		Term:             domainLoan.Term,
		PaymentSchedule:  string(domainLoan.PaymentSchedule),
		InstallmentDue:   domainLoan.AmortizationAmountDue().StringFixed(2),
		TotalInterest:    domainLoan.TotalInterest().StringFixed(2),
		InterestGained:   domainLoan.InterestGained().StringFixed(2),
		FirstPaymentDate: domainLoan.FirstPaymentDate.Format(time.RFC3339[:10]),
		LoanDate:         domainLoan.LoanDate.Format(time.RFC3339[:10]),
		IsCompleted:      domainLoan.IsCompleted,
		CreatedAt:        domainLoan.CreatedAt,
		UpdatedAt:        domainLoan.UpdatedAt,
	}

	if len(domainLoan.Sources) > 0 {
		resp.Sources = make([]LoanSourceResponse, len(domainLoan.Sources))
		for i := range domainLoan.Sources {
			resp.Sources[i] = NewLoanSourceResponse(&domainLoan.Sources[i])
		}
	}

	if includeSchedule && domainLoan.Amortizations != nil {
		resp.Schedule = make([]AmortizationResponse, len(domainLoan.Amortizations))
		for i := range domainLoan.Amortizations {
			resp.Schedule[i] = NewAmortizationResponse(&domainLoan.Amortizations[i])
		}
	}

	return resp
}

func NewLoanSourceResponse(src *funding.LoanSource) LoanSourceResponse {
	resp := LoanSourceResponse{
		ID:              strconv.FormatInt(src.ID, 10),
		CapitalSourceID: strconv.FormatInt(src.CapitalSourceID, 10),
		Amount:          src.Amount.StringFixed(2),
		DayDeadline:     src.DayDeadline,
		Term:            src.Term,
	}
	if src.InterestRate != nil {
		s := src.InterestRate.String()
		resp.InterestRate = &s
	}
	if src.LoanReceivedDate != nil {
		s := src.LoanReceivedDate.Format(time.RFC3339[:10])
		resp.LoanReceivedDate = &s
	}
	return resp
}

func NewAmortizationResponse(entry *loan.Amortization) AmortizationResponse {
	var paidDateStr *string
	if entry.PaidDate != nil {
		s := entry.PaidDate.Format(time.RFC3339[:10])
		paidDateStr = &s
	}

	return AmortizationResponse{
		ID:              strconv.FormatInt(entry.ID, 10),
		AmountDue:       entry.AmountDue.StringFixed(2),
		Type:            string(entry.Type),
		DueDate:         entry.DueDate.Format(time.RFC3339[:10]),
		PaidDate:        paidDateStr,
		IsPreterminated: entry.IsPreterminated,
		AmountGained:    entry.AmountGained.StringFixed(2),
	}
}

func NewPastDueResponse(entry *loan.Amortization) PastDueResponse {
	return PastDueResponse{
		AmortizationID: strconv.FormatInt(entry.ID, 10),
		LoanID:         strconv.FormatInt(entry.LoanID, 10),
		AmountDue:      entry.AmountDue.StringFixed(2),
		DueDate:        entry.DueDate.Format(time.RFC3339[:10]),
	}
}

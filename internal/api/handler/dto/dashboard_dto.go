package dto

import (
	"sharky/internal/domain/loan"
)

type EarningsPointResponse struct {
	Label               string `json:"label"`
	InterestGained      string `json:"interestGained"`
	PrincipalReceivable int64  `json:"principalReceivable"`
}

type SourceBreakdownResponse struct {
	Savings    int64 `json:"savings"`
	CreditCard int64 `json:"creditCard"`
	CashLoan   int64 `json:"cashLoan"`
}

type SummaryResponse struct {
	ActiveLoanCount           int   `json:"activeLoanCount"`
	TotalInterestGained       int64 `json:"totalInterestGained"`
	TotalPrincipalReceivables int64 `json:"totalPrincipalReceivables"`
	TotalPayableOutstanding   int64 `json:"totalPayableOutstanding"`
}

func NewEarningsPointResponse(p *loan.EarningsPoint) EarningsPointResponse {
	return EarningsPointResponse{
		Label:               p.Label,
		InterestGained:      p.InterestGained.StringFixed(2),
		PrincipalReceivable: p.PrincipalReceivable,
	}
}

func NewSourceBreakdownResponse(c loan.SourceKindCounts) SourceBreakdownResponse {
	return SourceBreakdownResponse{
		Savings:    c.Savings,
		CreditCard: c.CreditCard,
		CashLoan:   c.CashLoan,
	}
}

func NewSummaryResponse(s *loan.PortfolioSummary) SummaryResponse {
	return SummaryResponse{
		ActiveLoanCount:           s.ActiveLoanCount,
		TotalInterestGained:       s.TotalInterestGained,
		TotalPrincipalReceivables: s.TotalPrincipalReceivables,
		TotalPayableOutstanding:   s.TotalPayableOutstanding,
	}
}

package funding

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateBank(ctx context.Context, bank *Bank) (*Bank, error)

	ListBanks(ctx context.Context) ([]Bank, error)

	CreateCapitalSource(ctx context.Context, source *CapitalSource) (*CapitalSource, error)

	GetCapitalSourceByID(ctx context.Context, sourceID int64) (*CapitalSource, error)

	ListCapitalSources(ctx context.Context) ([]CapitalSource, error)

	SumUnpaidCapitalSourcePayments(ctx context.Context) (decimal.Decimal, error)
}

package funding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"sharky/internal/pkg/apperrors"
)

type FundingService interface {
	CreateBank(ctx context.Context, name, abbreviation string) (*Bank, error)

	ListBanks(ctx context.Context) ([]Bank, error)

	CreateCapitalSource(ctx context.Context, kind SourceKind, bankID int64, name string, providerID *int64) (*CapitalSource, error)

	GetCapitalSource(ctx context.Context, sourceID int64) (*CapitalSource, error)

	ListCapitalSources(ctx context.Context) ([]CapitalSource, error)

	TotalPayableOutstanding(ctx context.Context) (decimal.Decimal, error)
}

type fundingServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewFundingService(r Repository, logger *slog.Logger) FundingService {
	return &fundingServiceImpl{repo: r, logger: logger.With("component", "FundingService")}
}

func (s *fundingServiceImpl) CreateBank(ctx context.Context, name, abbreviation string) (*Bank, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("name", "bank name cannot be empty")
	}
	bank, err := s.repo.CreateBank(ctx, &Bank{Name: name, Abbreviation: abbreviation})
	if err != nil {
		s.logger.Error("Failed to create bank", "name", name, "error", err)
		return nil, err
	}
	s.logger.Info("Bank created", "bankID", bank.ID, "name", bank.Name)
	return bank, nil
}

func (s *fundingServiceImpl) ListBanks(ctx context.Context) ([]Bank, error) {
	return s.repo.ListBanks(ctx)
}

func (s *fundingServiceImpl) CreateCapitalSource(ctx context.Context, kind SourceKind, bankID int64, name string, providerID *int64) (*CapitalSource, error) {
	if !kind.Valid() {
		return nil, apperrors.NewValidationError("kind", fmt.Sprintf("unknown capital source kind %q", kind))
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("name", "capital source name cannot be empty")
	}
	if bankID <= 0 {
		return nil, apperrors.NewValidationError("bankId", "bank is required")
	}

	source, err := s.repo.CreateCapitalSource(ctx, &CapitalSource{
		Kind:       kind,
		BankID:     bankID,
		Name:       name,
		ProviderID: providerID,
	})
	if err != nil {
		s.logger.Error("Failed to create capital source", "name", name, "error", err)
		return nil, err
	}
	s.logger.Info("Capital source created", "sourceID", source.ID, "kind", source.Kind)
	return source, nil
}

func (s *fundingServiceImpl) GetCapitalSource(ctx context.Context, sourceID int64) (*CapitalSource, error) {
	source, err := s.repo.GetCapitalSourceByID(ctx, sourceID)
	if err != nil {
		s.logger.Warn("Failed to get capital source", "sourceID", sourceID, "error", err)
		return nil, err
	}
	return source, nil
}

func (s *fundingServiceImpl) ListCapitalSources(ctx context.Context) ([]CapitalSource, error) {
	return s.repo.ListCapitalSources(ctx)
}

func (s *fundingServiceImpl) TotalPayableOutstanding(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.repo.SumUnpaidCapitalSourcePayments(ctx)
	if err != nil {
		s.logger.Error("Failed to sum unpaid capital source payments", "error", err)
		return decimal.Zero, fmt.Errorf("%w: failed to sum capital source payables: %v", apperrors.ErrInternalServer, err)
	}
	return total, nil
}

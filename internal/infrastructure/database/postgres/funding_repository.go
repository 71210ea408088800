package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"sharky/internal/domain/funding"
	"sharky/internal/infrastructure/monitoring"
	"sharky/internal/pkg/apperrors"
)

type FundingRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ funding.Repository = (*FundingRepository)(nil)

func NewFundingRepository(db DBPool, logger *slog.Logger) *FundingRepository {
	if db == nil {
		panic("DBPool cannot be nil for FundingRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewFundingRepository, using default stderr handler")
	}
	return &FundingRepository{
		db:     db,
		logger: logger.With("component", "FundingRepository"),
	}
}

func (r *FundingRepository) CreateBank(ctx context.Context, bank *funding.Bank) (*funding.Bank, error) {
	if bank == nil {
		return nil, fmt.Errorf("%w: bank cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to insert bank", slog.String("name", bank.Name))

	query := `
        INSERT INTO banks (name, abbreviation)
        VALUES ($1, $2)
        RETURNING id`

	err := r.db.QueryRow(ctx, query, bank.Name, bank.Abbreviation).Scan(&bank.ID)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.WarnContext(ctx, "Bank already exists", slog.String("name", bank.Name))
			return nil, apperrors.ErrAlreadyExists
		}
		r.logger.ErrorContext(ctx, "Failed to insert bank", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to insert bank: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Bank inserted successfully", slog.Int64("bankID", bank.ID))
	return bank, nil
}

func (r *FundingRepository) ListBanks(ctx context.Context) ([]funding.Bank, error) {
	r.logger.InfoContext(ctx, "Attempting to list banks")

	query := `SELECT id, name, abbreviation FROM banks ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query banks", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query banks: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	banks := make([]funding.Bank, 0)
	for rows.Next() {
		var b funding.Bank
		if err := rows.Scan(&b.ID, &b.Name, &b.Abbreviation); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan bank row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan bank row: %w", apperrors.ErrDatabase, err)
		}
		banks = append(banks, b)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating bank rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating bank rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Finished listing banks", slog.Int("count", len(banks)))
	return banks, nil
}

const capitalSourceColumns = "id, kind, bank_id, name, provider_id, created_at, updated_at"

func scanCapitalSource(row pgx.Row) (*funding.CapitalSource, error) {
	var cs funding.CapitalSource
	err := row.Scan(
		&cs.ID,
		&cs.Kind,
		&cs.BankID,
		&cs.Name,
		&cs.ProviderID,
		&cs.CreatedAt,
		&cs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

func (r *FundingRepository) CreateCapitalSource(ctx context.Context, source *funding.CapitalSource) (*funding.CapitalSource, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: capital source cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to insert capital source",
		slog.String("name", source.Name), slog.String("kind", string(source.Kind)))

	query := `
        INSERT INTO capital_sources (kind, bank_id, name, provider_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		source.Kind,
		source.BankID,
		source.Name,
		source.ProviderID,
	).Scan(&source.ID, &source.CreatedAt, &source.UpdatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert capital source", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to insert capital source: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Capital source inserted successfully", slog.Int64("capitalSourceID", source.ID))
	return source, nil
}

func (r *FundingRepository) GetCapitalSourceByID(ctx context.Context, sourceID int64) (*funding.CapitalSource, error) {
	r.logger.InfoContext(ctx, "Attempting to find capital source by ID", slog.Int64("capitalSourceID", sourceID))

	query := `SELECT ` + capitalSourceColumns + ` FROM capital_sources WHERE id = $1`

	cs, err := scanCapitalSource(r.db.QueryRow(ctx, query, sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Capital source not found")
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan capital source", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get capital source by ID: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Capital source found successfully")
	return cs, nil
}

func (r *FundingRepository) ListCapitalSources(ctx context.Context) ([]funding.CapitalSource, error) {
	r.logger.InfoContext(ctx, "Attempting to list capital sources")

	query := `SELECT ` + capitalSourceColumns + ` FROM capital_sources ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query capital sources", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query capital sources: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	sources := make([]funding.CapitalSource, 0)
	for rows.Next() {
		cs, err := scanCapitalSource(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan capital source row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan capital source row: %w", apperrors.ErrDatabase, err)
		}
		sources = append(sources, *cs)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating capital source rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating capital source rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Finished listing capital sources", slog.Int("count", len(sources)))
	return sources, nil
}

// SumUnpaidCapitalSourcePayments totals what the business still owes its
// non-savings capital sources across all loans.
func (r *FundingRepository) SumUnpaidCapitalSourcePayments(ctx context.Context) (decimal.Decimal, error) {
	r.logger.InfoContext(ctx, "Attempting to sum unpaid capital source payments")
	start := time.Now()

	query := `
        SELECT COALESCE(SUM(amount), 0)
        FROM capital_source_payments
        WHERE paid_date IS NULL`

	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query).Scan(&total)
	if err != nil {
		monitoring.RecordDBQuery("sum_unpaid_capital_source_payments", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to sum unpaid capital source payments", slog.Any("error", err))
		return decimal.Zero, fmt.Errorf("%w: failed to sum unpaid capital source payments: %w", apperrors.ErrDatabase, err)
	}

	monitoring.RecordDBQuery("sum_unpaid_capital_source_payments", "success", time.Since(start))
	r.logger.InfoContext(ctx, "Summed unpaid capital source payments", slog.String("total", total.StringFixed(2)))
	return total, nil
}

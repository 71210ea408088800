package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"sharky/internal/domain/borrower"
	"sharky/internal/pkg/apperrors"
)

const uniqueViolationCode = "23505"

type BorrowerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ borrower.Repository = (*BorrowerRepository)(nil)

func NewBorrowerRepository(db DBPool, logger *slog.Logger) *BorrowerRepository {
	if db == nil {
		panic("DBPool cannot be nil for BorrowerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewBorrowerRepository, using default stderr handler")
	}
	return &BorrowerRepository{
		db:     db,
		logger: logger.With("component", "BorrowerRepository"),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func (r *BorrowerRepository) Save(ctx context.Context, b *borrower.Borrower) error {
	if b == nil {
		return fmt.Errorf("%w: borrower cannot be nil", apperrors.ErrInvalidArgument)
	}

	if b.ID == 0 {
		return r.createBorrower(ctx, b)
	}
	return r.updateBorrower(ctx, b)
}

func (r *BorrowerRepository) createBorrower(ctx context.Context, b *borrower.Borrower) error {
	r.logger.InfoContext(ctx, "Attempting to insert new borrower", slog.String("email", b.Email))

	query := `
        INSERT INTO borrowers (email, first_name, last_name, is_borrower, is_borrower_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		b.Email,
		b.FirstName,
		b.LastName,
		b.IsBorrower,
		b.IsBorrowerActive,
	).Scan(
		&b.ID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			r.logger.WarnContext(ctx, "Failed to insert borrower, email already registered", slog.String("email", b.Email))
			return borrower.ErrDuplicateEmail
		}
		r.logger.ErrorContext(ctx, "Failed to insert borrower", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert borrower: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Borrower inserted successfully", slog.Int64("borrowerID", b.ID))
	return nil
}

func (r *BorrowerRepository) updateBorrower(ctx context.Context, b *borrower.Borrower) error {
	r.logger.InfoContext(ctx, "Attempting to update borrower", slog.Int64("borrowerID", b.ID))

	query := `
        UPDATE borrowers
        SET email = $1,
            first_name = $2,
            last_name = $3,
            is_borrower = $4,
            is_borrower_active = $5,
            updated_at = NOW()
        WHERE id = $6`

	cmdTag, err := r.db.Exec(ctx, query,
		b.Email,
		b.FirstName,
		b.LastName,
		b.IsBorrower,
		b.IsBorrowerActive,
		b.ID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			r.logger.WarnContext(ctx, "Failed to update borrower, email already registered", slog.String("email", b.Email))
			return borrower.ErrDuplicateEmail
		}
		r.logger.ErrorContext(ctx, "Failed to update borrower", slog.Any("error", err))
		return fmt.Errorf("%w: failed to update borrower: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Update affected zero rows, borrower likely not found")
		return borrower.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Borrower updated successfully")
	return nil
}

const borrowerColumns = "id, email, first_name, last_name, is_borrower, is_borrower_active, created_at, updated_at"

func scanBorrower(row pgx.Row) (*borrower.Borrower, error) {
	var b borrower.Borrower
	err := row.Scan(
		&b.ID,
		&b.Email,
		&b.FirstName,
		&b.LastName,
		&b.IsBorrower,
		&b.IsBorrowerActive,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BorrowerRepository) FindByID(ctx context.Context, borrowerID int64) (*borrower.Borrower, error) {
	r.logger.InfoContext(ctx, "Attempting to find borrower by ID", slog.Int64("borrowerID", borrowerID))

	query := `SELECT ` + borrowerColumns + ` FROM borrowers WHERE id = $1`

	b, err := scanBorrower(r.db.QueryRow(ctx, query, borrowerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Borrower not found")
			return nil, borrower.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan borrower by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get borrower by ID: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Borrower found successfully")
	return b, nil
}

func (r *BorrowerRepository) FindByEmail(ctx context.Context, email string) (*borrower.Borrower, error) {
	r.logger.InfoContext(ctx, "Attempting to find borrower by email")

	query := `SELECT ` + borrowerColumns + ` FROM borrowers WHERE email = $1`

	b, err := scanBorrower(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Borrower not found for the given email")
			return nil, borrower.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan borrower by email", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get borrower by email: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Borrower found successfully by email", slog.Int64("borrowerID", b.ID))
	return b, nil
}

func (r *BorrowerRepository) FindAll(ctx context.Context, activeOnly bool) ([]*borrower.Borrower, error) {
	r.logger.InfoContext(ctx, "Attempting to find all borrowers")

	query := `SELECT ` + borrowerColumns + ` FROM borrowers WHERE is_borrower = TRUE`
	args := []any{}
	if activeOnly {
		query += " AND is_borrower_active = $1"
		args = append(args, true)
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query borrowers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query borrowers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	borrowers := make([]*borrower.Borrower, 0)
	for rows.Next() {
		b, err := scanBorrower(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan borrower row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan borrower row: %w", apperrors.ErrDatabase, err)
		}
		borrowers = append(borrowers, b)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating borrower rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating borrower rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Finished finding borrowers", slog.Int("count", len(borrowers)))
	return borrowers, nil
}

func (r *BorrowerRepository) SetActiveStatus(ctx context.Context, borrowerID int64, active bool) error {
	r.logger.InfoContext(ctx, "Attempting to set borrower active status", slog.Int64("borrowerID", borrowerID), slog.Bool("active", active))

	query := `UPDATE borrowers SET is_borrower_active = $1, updated_at = NOW() WHERE id = $2 AND is_borrower = TRUE`

	cmdTag, err := r.db.Exec(ctx, query, active, borrowerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to execute update active status", slog.Any("error", err))
		return fmt.Errorf("%w: failed to update active status: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Update active status affected zero rows, borrower likely not found")
		return borrower.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Borrower active status updated successfully")
	return nil
}

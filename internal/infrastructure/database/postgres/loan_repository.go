package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"sharky/internal/domain/funding"
	"sharky/internal/domain/loan"
	"sharky/internal/infrastructure/monitoring"
	"sharky/internal/pkg/apperrors"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var errMsgFormat = "%w: %w"

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *LoanRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Commit(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

const loanColumns = `id, borrower_id, amount, interest_rate, term, payment_schedule, first_payment_date, loan_date, is_completed, created_at, updated_at`

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.ID, &l.BorrowerID, &l.Amount, &l.InterestRate, &l.Term,
		&l.PaymentSchedule, &l.FirstPaymentDate, &l.LoanDate,
		&l.IsCompleted, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

const amortizationColumns = `id, loan_id, amount_due, amort_type, due_date, paid_date, is_preterminated, amount_gained, created_at, updated_at`

func scanAmortization(row pgx.Row) (*loan.Amortization, error) {
	var a loan.Amortization
	var paid pgtype.Date
	err := row.Scan(
		&a.ID, &a.LoanID, &a.AmountDue, &a.Type, &a.DueDate,
		&paid, &a.IsPreterminated, &a.AmountGained, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paid.Valid {
		t := paid.Time
		a.PaidDate = &t
	}
	return &a, nil
}

func (r *LoanRepository) CreateLoan(ctx context.Context, newLoan *loan.Loan, payments []funding.CapitalSourcePayment) (*loan.Loan, error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer r.RollbackTx(ctx, tx)

	loanSQL := `
        INSERT INTO loans (borrower_id, amount, interest_rate, term, payment_schedule, first_payment_date, loan_date, is_completed, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NOW(), NOW())
        RETURNING ` + loanColumns

	createdLoan, err := scanLoan(tx.QueryRow(ctx, loanSQL,
		newLoan.BorrowerID, newLoan.Amount, newLoan.InterestRate, newLoan.Term,
		newLoan.PaymentSchedule, newLoan.FirstPaymentDate, newLoan.LoanDate,
	))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "error", err)
		return nil, fmt.Errorf("%w: failed to insert loan: %w", apperrors.ErrDatabase, err)
	}
	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", createdLoan.ID)

	sourceSQL := `
        INSERT INTO loan_sources (loan_id, capital_source_id, amount, interest_rate, day_deadline, term, loan_received_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING id`

	for i := range newLoan.Sources {
		src := &newLoan.Sources[i]
		err = tx.QueryRow(ctx, sourceSQL,
			createdLoan.ID, src.CapitalSourceID, src.Amount, src.InterestRate,
			src.DayDeadline, src.Term, src.LoanReceivedDate,
		).Scan(&src.ID)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to insert loan source", "error", err, "loan_id", createdLoan.ID)
			return nil, fmt.Errorf("%w: failed to insert loan source: %w", apperrors.ErrDatabase, err)
		}
		src.LoanID = createdLoan.ID
	}

	if len(payments) > 0 {
		paymentSQL := `
            INSERT INTO capital_source_payments (loan_source_id, amount, due_date)
            VALUES ($1, $2, $3)`

		batch := &pgx.Batch{}
		for _, p := range payments {
			batch.Queue(paymentSQL, p.LoanSourceID, p.Amount, p.DueDate)
		}

		results := tx.SendBatch(ctx, batch)
		for i := 0; i < len(payments); i++ {
			if _, err = results.Exec(); err != nil {
				results.Close()
				r.logger.ErrorContext(ctx, "Failed executing capital source payment batch insert", "error", err, "entry_index", i)
				return nil, fmt.Errorf("%w: failed inserting capital source payment %d: %w", apperrors.ErrDatabase, i+1, err)
			}
		}
		if err = results.Close(); err != nil {
			r.logger.ErrorContext(ctx, "Failed closing payment batch results", "error", err)
			return nil, fmt.Errorf("%w: closing batch results failed: %w", apperrors.ErrDatabase, err)
		}
	}

	if err = r.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	createdLoan.Sources = newLoan.Sources
	return createdLoan, nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	status := "success"
	startTime := time.Now()

	l, err := scanLoan(r.db.QueryRow(ctx, query, loanID))

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetLoanByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	if l.Sources, err = r.loadSources(ctx, loanID); err != nil {
		return nil, err
	}
	return l, nil
}

const sourceColumns = `ls.id, ls.loan_id, ls.capital_source_id, ls.amount, ls.interest_rate, ls.day_deadline, ls.term, ls.loan_received_date, ls.created_at, ls.updated_at,
       cs.id, cs.kind, cs.bank_id, cs.name, cs.provider_id, cs.created_at, cs.updated_at`

func (r *LoanRepository) loadSources(ctx context.Context, loanID int64) ([]funding.LoanSource, error) {
	query := `
        SELECT ` + sourceColumns + `
        FROM loan_sources ls
        JOIN capital_sources cs ON cs.id = ls.capital_source_id
        WHERE ls.loan_id = $1
        ORDER BY ls.created_at`

	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to load loan sources", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	var sources []funding.LoanSource
	for rows.Next() {
		var ls funding.LoanSource
		var cs funding.CapitalSource
		var rate decimal.NullDecimal
		var received pgtype.Date
		err := rows.Scan(
			&ls.ID, &ls.LoanID, &ls.CapitalSourceID, &ls.Amount, &rate,
			&ls.DayDeadline, &ls.Term, &received, &ls.CreatedAt, &ls.UpdatedAt,
			&cs.ID, &cs.Kind, &cs.BankID, &cs.Name, &cs.ProviderID, &cs.CreatedAt, &cs.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		if rate.Valid {
			ls.InterestRate = &rate.Decimal
		}
		if received.Valid {
			t := received.Time
			ls.LoanReceivedDate = &t
		}
		ls.Source = &cs
		sources = append(sources, ls)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return sources, nil
}

func (r *LoanRepository) ListActiveLoans(ctx context.Context) ([]*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE is_completed = FALSE ORDER BY loan_date DESC`
	status := "success"
	startTime := time.Now()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		monitoring.RecordDBQuery("ListActiveLoans", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to list active loans", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	var loans []*loan.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		status = "error"
		monitoring.RecordDBQuery("ListActiveLoans", status, time.Since(startTime))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	monitoring.RecordDBQuery("ListActiveLoans", status, time.Since(startTime))

	for _, l := range loans {
		if l.Sources, err = r.loadSources(ctx, l.ID); err != nil {
			return nil, err
		}
	}
	return loans, nil
}

func (r *LoanRepository) GetScheduleByLoanID(ctx context.Context, loanID int64) ([]loan.Amortization, error) {
	query := `SELECT ` + amortizationColumns + ` FROM amortizations WHERE loan_id = $1 ORDER BY due_date`

	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to get schedule", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return collectAmortizations(rows)
}

func (r *LoanRepository) ListPastDue(ctx context.Context, asOf time.Time) ([]loan.Amortization, error) {
	query := `SELECT ` + amortizationColumns + ` FROM amortizations WHERE due_date <= $1 AND paid_date IS NULL ORDER BY due_date`

	rows, err := r.db.Query(ctx, query, asOf)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list past due installments", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return collectAmortizations(rows)
}

func collectAmortizations(rows pgx.Rows) ([]loan.Amortization, error) {
	var schedule []loan.Amortization
	for rows.Next() {
		a, err := scanAmortization(rows)
		if err != nil {
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		schedule = append(schedule, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return schedule, nil
}

func (r *LoanRepository) CountUnpaidEntries(ctx context.Context, loanID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM amortizations WHERE loan_id = $1 AND paid_date IS NULL`, loanID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func (r *LoanRepository) LockLoanForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	l, err := scanLoan(tx.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to lock loan for update", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	// Sources are needed for the gained-amount computation during schedule
	// generation; load them inside the same transaction.
	sourcesQuery := `
        SELECT ` + sourceColumns + `
        FROM loan_sources ls
        JOIN capital_sources cs ON cs.id = ls.capital_source_id
        WHERE ls.loan_id = $1
        ORDER BY ls.created_at`

	rows, err := tx.Query(ctx, sourcesQuery, loanID)
	if err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ls funding.LoanSource
		var cs funding.CapitalSource
		var rate decimal.NullDecimal
		var received pgtype.Date
		err := rows.Scan(
			&ls.ID, &ls.LoanID, &ls.CapitalSourceID, &ls.Amount, &rate,
			&ls.DayDeadline, &ls.Term, &received, &ls.CreatedAt, &ls.UpdatedAt,
			&cs.ID, &cs.Kind, &cs.BankID, &cs.Name, &cs.ProviderID, &cs.CreatedAt, &cs.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		if rate.Valid {
			ls.InterestRate = &rate.Decimal
		}
		if received.Valid {
			t := received.Time
			ls.LoanReceivedDate = &t
		}
		ls.Source = &cs
		l.Sources = append(l.Sources, ls)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return l, nil
}

func (r *LoanRepository) CountScheduleEntriesInTx(ctx context.Context, tx pgx.Tx, loanID int64) (int, error) {
	var count int
	err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM amortizations WHERE loan_id = $1`, loanID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func (r *LoanRepository) InsertScheduleInTx(ctx context.Context, tx pgx.Tx, schedule []loan.Amortization) error {
	if len(schedule) == 0 {
		return nil
	}

	insertSQL := `
        INSERT INTO amortizations (loan_id, amount_due, amort_type, due_date, is_preterminated, amount_gained, created_at, updated_at)
        VALUES ($1, $2, $3, $4, FALSE, $5, NOW(), NOW())`

	batch := &pgx.Batch{}
	for _, entry := range schedule {
		batch.Queue(insertSQL, entry.LoanID, entry.AmountDue, entry.Type, entry.DueDate, entry.AmountGained)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < len(schedule); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			r.logger.ErrorContext(ctx, "Failed executing schedule batch insert", "error", err, "entry_index", i)
			return fmt.Errorf("%w: failed inserting schedule entry %d: %w", apperrors.ErrDatabase, i+1, err)
		}
	}
	if err := results.Close(); err != nil {
		r.logger.ErrorContext(ctx, "Failed closing schedule batch results", "error", err)
		return fmt.Errorf("%w: closing batch results failed: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) FindOldestUnpaidEntryForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*loan.Amortization, error) {
	query := `
        SELECT ` + amortizationColumns + `
        FROM amortizations
        WHERE loan_id = $1 AND paid_date IS NULL
        ORDER BY due_date
        LIMIT 1
        FOR UPDATE`

	a, err := scanAmortization(tx.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return a, nil
}

func (r *LoanRepository) MarkEntryPaidInTx(ctx context.Context, tx pgx.Tx, entryID int64, paidDate time.Time) error {
	cmdTag, err := tx.Exec(ctx,
		`UPDATE amortizations SET paid_date = $1, updated_at = NOW() WHERE id = $2 AND paid_date IS NULL`,
		paidDate, entryID)
	if err != nil {
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *LoanRepository) CountUnpaidEntriesInTx(ctx context.Context, tx pgx.Tx, loanID int64) (int, error) {
	var count int
	err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM amortizations WHERE loan_id = $1 AND paid_date IS NULL`, loanID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func (r *LoanRepository) PreTerminateUnpaidInTx(ctx context.Context, tx pgx.Tx, loanID int64, amountDue decimal.Decimal, paidDate time.Time) (int64, error) {
	cmdTag, err := tx.Exec(ctx, `
        UPDATE amortizations
        SET amount_due = $1, paid_date = $2, is_preterminated = TRUE, updated_at = NOW()
        WHERE loan_id = $3 AND paid_date IS NULL`,
		amountDue, paidDate, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to settle unpaid installments", "loan_id", loanID, "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *LoanRepository) SetLoanCompletedInTx(ctx context.Context, tx pgx.Tx, loanID int64) error {
	cmdTag, err := tx.Exec(ctx,
		`UPDATE loans SET is_completed = TRUE, updated_at = NOW() WHERE id = $1`, loanID)
	if err != nil {
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SumInterestGainedForMonth mirrors the earnings-graph query: each loan with
// a qualifying installment due in the month contributes its gained amount
// once, regardless of how many installments fall in that month.
func (r *LoanRepository) SumInterestGainedForMonth(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	query := `
        SELECT COALESCE(SUM(amount_gained), 0)
        FROM (
            SELECT DISTINCT loan_id, amount_gained
            FROM amortizations
            WHERE amort_type <> 'principal_only'
              AND is_preterminated = FALSE
              AND EXTRACT(YEAR FROM due_date) = $1
              AND EXTRACT(MONTH FROM due_date) = $2
        ) gained`

	status := "success"
	startTime := time.Now()
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query, year, int(month)).Scan(&total)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("SumInterestGainedForMonth", status, time.Since(startTime))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to sum interest gained", "year", year, "month", int(month), "error", err)
		return decimal.Zero, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return total, nil
}

func (r *LoanRepository) ListSavingsFundedLoansDueIn(ctx context.Context, year int, month time.Month) ([]*loan.Loan, error) {
	query := `
        SELECT DISTINCT l.id, l.borrower_id, l.amount, l.interest_rate, l.term, l.payment_schedule, l.first_payment_date, l.loan_date, l.is_completed, l.created_at, l.updated_at
        FROM loans l
        JOIN amortizations a ON a.loan_id = l.id
        JOIN loan_sources ls ON ls.loan_id = l.id
        JOIN capital_sources cs ON cs.id = ls.capital_source_id
        WHERE cs.kind = 'savings'
          AND a.amort_type <> 'interest_only'
          AND EXTRACT(YEAR FROM a.due_date) = $1
          AND EXTRACT(MONTH FROM a.due_date) = $2`

	rows, err := r.db.Query(ctx, query, year, int(month))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list savings-funded loans", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	var loans []*loan.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	for _, l := range loans {
		if l.Sources, err = r.loadSources(ctx, l.ID); err != nil {
			return nil, err
		}
	}
	return loans, nil
}

func (r *LoanRepository) CountLoansBySourceKind(ctx context.Context) (loan.SourceKindCounts, error) {
	query := `
        SELECT
            COUNT(DISTINCT l.id) FILTER (WHERE cs.kind = 'savings'),
            COUNT(DISTINCT l.id) FILTER (WHERE cs.kind = 'credit_card'),
            COUNT(DISTINCT l.id) FILTER (WHERE cs.kind = 'cash_loan')
        FROM loans l
        JOIN loan_sources ls ON ls.loan_id = l.id
        JOIN capital_sources cs ON cs.id = ls.capital_source_id`

	var counts loan.SourceKindCounts
	err := r.db.QueryRow(ctx, query).Scan(&counts.Savings, &counts.CreditCard, &counts.CashLoan)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count loans by source kind", "error", err)
		return loan.SourceKindCounts{}, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return counts, nil
}

package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"sharky/internal/domain/loan"
	"sharky/internal/event"
	"sharky/internal/infrastructure/monitoring"
)

// PastDueJob scans for unpaid installments whose due date has passed and
// publishes one event per installment so downstream consumers can chase the
// borrower.
type PastDueJob struct {
	loanService loan.LoanService
	events      event.EventPublisher
	logger      *slog.Logger
}

// NewPastDueJob builds the job. A nil publisher is allowed; past-due
// installments are then only logged and counted.
func NewPastDueJob(loanSvc loan.LoanService, events event.EventPublisher, logger *slog.Logger) *PastDueJob {
	if loanSvc == nil || logger == nil {
		panic("PastDueJob dependencies cannot be nil")
	}
	return &PastDueJob{
		loanService: loanSvc,
		events:      events,
		logger:      logger.With("job", "PastDue"),
	}
}

func (j *PastDueJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting daily past-due installment job.")

	pastDue, err := j.loanService.ListPastDue(ctx, startTime)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list past-due installments, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list past-due installments: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched past-due installments.", slog.Int("count", len(pastDue)))

	if len(pastDue) == 0 {
		j.logger.InfoContext(ctx, "No past-due installments found.")
		j.logger.InfoContext(ctx, "Past-due installment job finished.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var wg sync.WaitGroup
	var publishedCount, errorCount int32

	for i := range pastDue {
		wg.Add(1)
		go func(entry loan.Amortization) {
			defer wg.Done()

			logCtx := j.logger.With(slog.Int64("loanID", entry.LoanID), slog.Int64("amortizationID", entry.ID))

			if j.events == nil {
				logCtx.WarnContext(ctx, "Installment past due, no event publisher configured",
					slog.String("amountDue", entry.AmountDue.StringFixed(2)),
					slog.Time("dueDate", entry.DueDate))
				monitoring.RecordPastDueEvent()
				atomic.AddInt32(&publishedCount, 1)
				return
			}

			evt := event.AmortizationPastDueEvent{
				AmortizationID: entry.ID,
				LoanID:         entry.LoanID,
				AmountDue:      entry.AmountDue.StringFixed(2),
				DueDate:        entry.DueDate,
				Timestamp:      startTime,
			}
			if pubErr := j.events.PublishAmortizationPastDue(ctx, evt); pubErr != nil {
				logCtx.ErrorContext(ctx, "Failed to publish past-due event", slog.Any("error", pubErr))
				atomic.AddInt32(&errorCount, 1)
				return
			}

			monitoring.RecordPastDueEvent()
			atomic.AddInt32(&publishedCount, 1)
		}(pastDue[i])
	}

	wg.Wait()
	duration := time.Since(startTime)
	summaryLog := j.logger.With(
		slog.Duration("duration", duration),
		slog.Int("past_due_installments", len(pastDue)),
		slog.Int("events_published", int(atomic.LoadInt32(&publishedCount))),
		slog.Int("errors_encountered", int(atomic.LoadInt32(&errorCount))),
	)
	if errorCount > 0 {
		summaryLog.WarnContext(ctx, "Past-due installment job finished with errors.")
		return fmt.Errorf("job completed with %d errors", errorCount)
	}

	summaryLog.InfoContext(ctx, "Past-due installment job finished successfully.")
	return nil
}

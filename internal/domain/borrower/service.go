package borrower

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"sharky/internal/event"
)

const borrowerNotFound = "Borrower not found by repository"

type BorrowerService interface {
	RegisterBorrower(ctx context.Context, email, firstName, lastName string) (*Borrower, error)
	GetBorrower(ctx context.Context, borrowerID int64) (*Borrower, error)
	ListBorrowers(ctx context.Context, activeOnly bool) ([]*Borrower, error)
	DeactivateBorrower(ctx context.Context, borrowerID int64) error
	ReactivateBorrower(ctx context.Context, borrowerID int64) error
}

var _ BorrowerService = (*borrowerService)(nil)

type borrowerService struct {
	repo   Repository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewBorrowerService(repo Repository, eventPublisher event.EventPublisher, logger *slog.Logger) BorrowerService {
	if repo == nil {
		panic("borrower repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewBorrowerService, using default stderr handler")
	}

	return &borrowerService{
		repo:   repo,
		pub:    eventPublisher,
		logger: logger.With(slog.String("component", "borrowerService")),
	}
}

func (s *borrowerService) RegisterBorrower(ctx context.Context, email, firstName, lastName string) (*Borrower, error) {
	s.logger.InfoContext(ctx, "Attempting to register new borrower")

	email = strings.TrimSpace(strings.ToLower(email))
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if email == "" || !strings.Contains(email, "@") {
		s.logger.WarnContext(ctx, "Validation failed: email is invalid")
		return nil, errors.New("borrower email is invalid")
	}
	if firstName == "" || lastName == "" {
		s.logger.WarnContext(ctx, "Validation failed: name is empty")
		return nil, errors.New("borrower first and last name cannot be empty")
	}

	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		s.logger.WarnContext(ctx, "Borrower email already registered", slog.Int64("existingID", existing.ID))
		return nil, ErrDuplicateEmail
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.ErrorContext(ctx, "Repository error checking for duplicate email", slog.Any("error", err))
		return nil, fmt.Errorf("failed to check for duplicate borrower: %w", err)
	}

	b := &Borrower{
		Email:            email,
		FirstName:        firstName,
		LastName:         lastName,
		IsBorrower:       true,
		IsBorrowerActive: true,
	}

	if err := s.repo.Save(ctx, b); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new borrower", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new borrower: %w", err)
	}

	if s.pub != nil {
		registered := event.BorrowerRegisteredEvent{
			BorrowerID: b.ID,
			Email:      b.Email,
			FullName:   b.FullName(),
			Timestamp:  time.Now(),
		}
		if pubErr := s.pub.PublishBorrowerRegistered(ctx, registered); pubErr != nil {
			s.logger.ErrorContext(ctx, "Borrower registered, but FAILED to publish registration event", slog.Any("error", pubErr))
		}
	}

	s.logger.InfoContext(ctx, "Successfully registered new borrower", slog.Int64("borrowerID", b.ID))
	return b, nil
}

func (s *borrowerService) GetBorrower(ctx context.Context, borrowerID int64) (*Borrower, error) {
	b, err := s.repo.FindByID(ctx, borrowerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, borrowerNotFound, slog.Int64("borrowerID", borrowerID))
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding borrower", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get borrower %d: %w", borrowerID, err)
	}
	return b, nil
}

func (s *borrowerService) ListBorrowers(ctx context.Context, activeOnly bool) ([]*Borrower, error) {
	borrowers, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing borrowers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list borrowers: %w", err)
	}
	s.logger.InfoContext(ctx, "Successfully retrieved borrowers", slog.Int("count", len(borrowers)))
	return borrowers, nil
}

func (s *borrowerService) DeactivateBorrower(ctx context.Context, borrowerID int64) error {
	s.logger.InfoContext(ctx, "Attempting to deactivate borrower", slog.Int64("borrowerID", borrowerID))

	err := s.repo.SetActiveStatus(ctx, borrowerID, false)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, borrowerNotFound)
			return ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error deactivating borrower", slog.Any("error", err))
		return fmt.Errorf("failed to deactivate borrower %d: %w", borrowerID, err)
	}

	s.logger.InfoContext(ctx, "Successfully deactivated borrower")
	return nil
}

func (s *borrowerService) ReactivateBorrower(ctx context.Context, borrowerID int64) error {
	s.logger.InfoContext(ctx, "Attempting to reactivate borrower", slog.Int64("borrowerID", borrowerID))

	err := s.repo.SetActiveStatus(ctx, borrowerID, true)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, borrowerNotFound)
			return ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error reactivating borrower", slog.Any("error", err))
		return fmt.Errorf("failed to reactivate borrower %d: %w", borrowerID, err)
	}

	s.logger.InfoContext(ctx, "Successfully reactivated borrower")
	return nil
}

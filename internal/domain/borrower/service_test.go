package borrower

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"sharky/internal/event"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, b *Borrower) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, borrowerID int64) (*Borrower, error) {
	args := m.Called(ctx, borrowerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Borrower), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*Borrower, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Borrower), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context, activeOnly bool) ([]*Borrower, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]*Borrower), args.Error(1)
}

func (m *MockRepository) SetActiveStatus(ctx context.Context, borrowerID int64, active bool) error {
	return m.Called(ctx, borrowerID, active).Error(0)
}

var _ Repository = (*MockRepository)(nil)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishLoanCompleted(ctx context.Context, evt event.LoanCompletedEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockEventPublisher) PublishAmortizationPastDue(ctx context.Context, evt event.AmortizationPastDueEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockEventPublisher) PublishBorrowerRegistered(ctx context.Context, evt event.BorrowerRegisteredEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func TestRegisterBorrower(t *testing.T) {
	mockRepo := new(MockRepository)
	mockEvents := new(MockEventPublisher)
	service := NewBorrowerService(mockRepo, mockEvents, logger)
	ctx := context.Background()

	mockRepo.On("FindByEmail", ctx, "jane.doe@example.com").Return(nil, ErrNotFound)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(b *Borrower) bool {
		return b.Email == "jane.doe@example.com" && b.IsBorrower && b.IsBorrowerActive
	})).Return(nil)
	mockEvents.On("PublishBorrowerRegistered", ctx, mock.Anything).Return(nil)

	b, err := service.RegisterBorrower(ctx, " Jane.Doe@Example.com ", "Jane", "Doe")

	assert.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", b.Email)
	assert.Equal(t, "Jane Doe", b.FullName())
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestRegisterBorrowerRejectsInvalidInput(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewBorrowerService(mockRepo, nil, logger)
	ctx := context.Background()

	_, err := service.RegisterBorrower(ctx, "not-an-email", "Jane", "Doe")
	assert.Error(t, err)

	_, err = service.RegisterBorrower(ctx, "jane@example.com", "", "Doe")
	assert.Error(t, err)

	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRegisterBorrowerRejectsDuplicateEmail(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewBorrowerService(mockRepo, nil, logger)
	ctx := context.Background()

	existing := &Borrower{ID: 3, Email: "jane.doe@example.com"}
	mockRepo.On("FindByEmail", ctx, "jane.doe@example.com").Return(existing, nil)

	_, err := service.RegisterBorrower(ctx, "jane.doe@example.com", "Jane", "Doe")

	assert.ErrorIs(t, err, ErrDuplicateEmail)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGetBorrowerNotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewBorrowerService(mockRepo, nil, logger)
	ctx := context.Background()

	mockRepo.On("FindByID", ctx, int64(404)).Return(nil, ErrNotFound)

	b, err := service.GetBorrower(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, b)
}

func TestListBorrowers(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewBorrowerService(mockRepo, nil, logger)
	ctx := context.Background()

	expected := []*Borrower{{ID: 1}, {ID: 2}}
	mockRepo.On("FindAll", ctx, true).Return(expected, nil)

	borrowers, err := service.ListBorrowers(ctx, true)
	assert.NoError(t, err)
	assert.Equal(t, expected, borrowers)
}

func TestDeactivateAndReactivateBorrower(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewBorrowerService(mockRepo, nil, logger)
	ctx := context.Background()

	mockRepo.On("SetActiveStatus", ctx, int64(1), false).Return(nil)
	mockRepo.On("SetActiveStatus", ctx, int64(1), true).Return(nil)

	assert.NoError(t, service.DeactivateBorrower(ctx, 1))
	assert.NoError(t, service.ReactivateBorrower(ctx, 1))
	mockRepo.AssertExpectations(t)
}

func TestDeactivateBorrowerNotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewBorrowerService(mockRepo, nil, logger)
	ctx := context.Background()

	mockRepo.On("SetActiveStatus", ctx, int64(404), false).Return(ErrNotFound)

	assert.ErrorIs(t, service.DeactivateBorrower(ctx, 404), ErrNotFound)
}

package funding

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"sharky/internal/pkg/apperrors"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateBank(ctx context.Context, bank *Bank) (*Bank, error) {
	args := m.Called(ctx, bank)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Bank), args.Error(1)
}

func (m *MockRepository) ListBanks(ctx context.Context) ([]Bank, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Bank), args.Error(1)
}

func (m *MockRepository) CreateCapitalSource(ctx context.Context, source *CapitalSource) (*CapitalSource, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CapitalSource), args.Error(1)
}

func (m *MockRepository) GetCapitalSourceByID(ctx context.Context, sourceID int64) (*CapitalSource, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CapitalSource), args.Error(1)
}

func (m *MockRepository) ListCapitalSources(ctx context.Context) ([]CapitalSource, error) {
	args := m.Called(ctx)
	return args.Get(0).([]CapitalSource), args.Error(1)
}

func (m *MockRepository) SumUnpaidCapitalSourcePayments(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ Repository = (*MockRepository)(nil)

func TestCreateBank(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewFundingService(mockRepo, logger)
	ctx := context.Background()

	created := &Bank{ID: 1, Name: "Bank Central Asia", Abbreviation: "BCA"}
	mockRepo.On("CreateBank", ctx, mock.Anything).Return(created, nil)

	bank, err := service.CreateBank(ctx, "Bank Central Asia", "BCA")
	assert.NoError(t, err)
	assert.Equal(t, created, bank)
	mockRepo.AssertExpectations(t)
}

func TestCreateBankRejectsEmptyName(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewFundingService(mockRepo, logger)

	_, err := service.CreateBank(context.Background(), "   ", "BCA")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	mockRepo.AssertNotCalled(t, "CreateBank", mock.Anything, mock.Anything)
}

func TestCreateCapitalSourceValidation(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewFundingService(mockRepo, logger)
	ctx := context.Background()

	_, err := service.CreateCapitalSource(ctx, SourceKind("bond"), 1, "Bonds", nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = service.CreateCapitalSource(ctx, KindSavings, 1, "", nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = service.CreateCapitalSource(ctx, KindSavings, 0, "Own savings", nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	mockRepo.AssertNotCalled(t, "CreateCapitalSource", mock.Anything, mock.Anything)
}

func TestCreateCapitalSource(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewFundingService(mockRepo, logger)
	ctx := context.Background()

	created := &CapitalSource{ID: 5, Kind: KindSavings, BankID: 1, Name: "Own savings"}
	mockRepo.On("CreateCapitalSource", ctx, mock.Anything).Return(created, nil)

	source, err := service.CreateCapitalSource(ctx, KindSavings, 1, "Own savings", nil)
	assert.NoError(t, err)
	assert.Equal(t, created, source)
	mockRepo.AssertExpectations(t)
}

func TestTotalPayableOutstanding(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewFundingService(mockRepo, logger)
	ctx := context.Background()

	mockRepo.On("SumUnpaidCapitalSourcePayments", ctx).Return(decimal.RequireFromString("52500.75"), nil)

	total, err := service.TotalPayableOutstanding(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "52500.75", total.StringFixed(2))
	mockRepo.AssertExpectations(t)
}

func TestTotalPayableOutstandingWrapsRepoError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewFundingService(mockRepo, logger)
	ctx := context.Background()

	mockRepo.On("SumUnpaidCapitalSourcePayments", ctx).Return(decimal.Zero, assert.AnError)

	_, err := service.TotalPayableOutstanding(ctx)
	assert.ErrorIs(t, err, apperrors.ErrInternalServer)
}

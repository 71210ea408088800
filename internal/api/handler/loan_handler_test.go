package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"sharky/internal/api/handler/dto"
	"sharky/internal/domain/funding"
	"sharky/internal/domain/loan"
	"sharky/internal/pkg/apperrors"
)

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, borrowerID int64, amount, interestRate decimal.Decimal, term int, schedule loan.PaymentSchedule, firstPaymentDate, loanDate time.Time, allocations []funding.LoanSource) (*loan.Loan, error) {
	args := m.Called(ctx, borrowerID, amount, interestRate, term, schedule, firstPaymentDate, loanDate, allocations)
	if l, ok := args.Get(0).(*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID int64) (*loan.Loan, error) {
	args := m.Called(ctx, loanID)
	if l, ok := args.Get(0).(*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) ListActiveLoans(ctx context.Context) ([]*loan.Loan, error) {
	args := m.Called(ctx)
	if loans, ok := args.Get(0).([]*loan.Loan); ok {
		return loans, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) GetLoanSchedule(ctx context.Context, loanID int64) ([]loan.Amortization, error) {
	args := m.Called(ctx, loanID)
	if schedule, ok := args.Get(0).([]loan.Amortization); ok {
		return schedule, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) GenerateAmortization(ctx context.Context, loanID int64) ([]loan.Amortization, error) {
	args := m.Called(ctx, loanID)
	if schedule, ok := args.Get(0).([]loan.Amortization); ok {
		return schedule, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) RecordPayment(ctx context.Context, loanID int64, paidDate time.Time) error {
	return m.Called(ctx, loanID, paidDate).Error(0)
}

func (m *MockLoanService) PreTerminate(ctx context.Context, loanID int64, now time.Time) error {
	return m.Called(ctx, loanID, now).Error(0)
}

func (m *MockLoanService) ListPastDue(ctx context.Context, asOf time.Time) ([]loan.Amortization, error) {
	args := m.Called(ctx, asOf)
	if pastDue, ok := args.Get(0).([]loan.Amortization); ok {
		return pastDue, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) EarningsSeries(ctx context.Context, now time.Time) ([]loan.EarningsPoint, error) {
	args := m.Called(ctx, now)
	if points, ok := args.Get(0).([]loan.EarningsPoint); ok {
		return points, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) LoanSourceBreakdown(ctx context.Context) (loan.SourceKindCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(loan.SourceKindCounts), args.Error(1)
}

func (m *MockLoanService) Summary(ctx context.Context) (*loan.PortfolioSummary, error) {
	args := m.Called(ctx)
	if summary, ok := args.Get(0).(*loan.PortfolioSummary); ok {
		return summary, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ loan.LoanService = (*MockLoanService)(nil)

func loanURLRequest(method, target, loanID string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{Keys: []string{"loanID"}, Values: []string{loanID}},
	}))
}

func testLoan(loanID int64) *loan.Loan {
	return &loan.Loan{
		ID:               loanID,
		BorrowerID:       7,
		Amount:           decimal.NewFromInt(120000),
		InterestRate:     decimal.NewFromInt(12),
		Term:             12,
		PaymentSchedule:  loan.ScheduleMonthly,
		FirstPaymentDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		LoanDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestLoanHandlerGetLoan(t *testing.T) {
	mockService := new(MockLoanService)
	handler := NewLoanHandler(mockService, logger)

	t.Run("successfully retrieves loan details", func(t *testing.T) {
		mockService.On("GetLoan", mock.Anything, int64(123)).Return(testLoan(123), nil)

		rec := httptest.NewRecorder()
		handler.GetLoan(rec, loanURLRequest(http.MethodGet, "/loans/123", "123", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.LoanResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		assert.NoError(t, err)
		assert.Equal(t, "123", resp.ID)
		assert.Equal(t, "24400.00", resp.InstallmentDue)
		mockService.AssertExpectations(t)
	})

	t.Run("returns error for invalid loan ID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.GetLoan(rec, loanURLRequest(http.MethodGet, "/loans/invalid", "invalid", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.ErrorResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		assert.NoError(t, err)
		assert.Contains(t, resp.Error.Message, "invalid syntax")
	})

	t.Run("returns error when loan not found", func(t *testing.T) {
		mockService.On("GetLoan", mock.Anything, int64(2)).Return((*loan.Loan)(nil), apperrors.ErrNotFound)

		rec := httptest.NewRecorder()
		handler.GetLoan(rec, loanURLRequest(http.MethodGet, "/loans/2", "2", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLoanHandlerCreateLoan(t *testing.T) {
	t.Run("successfully creates loan", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, logger)

		mockService.On("CreateLoan", mock.Anything, int64(7), mock.Anything, mock.Anything, 12,
			loan.ScheduleMonthly, mock.Anything, mock.Anything, mock.Anything).Return(testLoan(1), nil)

		reqBody := dto.CreateLoanRequest{
			BorrowerID:       7,
			Amount:           "120000",
			InterestRate:     "12",
			Term:             12,
			PaymentSchedule:  "monthly",
			FirstPaymentDate: "2024-02-01",
			LoanDate:         "2024-01-01",
		}
		body, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/loans", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CreateLoan(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.LoanResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		assert.NoError(t, err)
		assert.Equal(t, "1", resp.ID)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects invalid payment schedule", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, logger)

		reqBody := dto.CreateLoanRequest{
			BorrowerID:      7,
			Amount:          "120000",
			InterestRate:    "12",
			Term:            12,
			PaymentSchedule: "weekly",
		}
		body, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/loans", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CreateLoan(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/loans", bytes.NewReader([]byte("not json")))
		rec := httptest.NewRecorder()

		handler.CreateLoan(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoanHandlerListLoans(t *testing.T) {
	mockService := new(MockLoanService)
	handler := NewLoanHandler(mockService, logger)

	mockService.On("ListActiveLoans", mock.Anything).Return([]*loan.Loan{testLoan(1), testLoan(2)}, nil)

	req := httptest.NewRequest(http.MethodGet, "/loans", nil)
	rec := httptest.NewRecorder()

	handler.ListLoans(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.LoanResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
}

func TestLoanHandlerGenerateSchedule(t *testing.T) {
	t.Run("successfully generates schedule", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, logger)

		schedule := []loan.Amortization{{
			ID:        1,
			LoanID:    5,
			AmountDue: decimal.RequireFromString("24400.00"),
			Type:      loan.TypeFullPayment,
			DueDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		}}
		mockService.On("GenerateAmortization", mock.Anything, int64(5)).Return(schedule, nil)

		rec := httptest.NewRecorder()
		handler.GenerateSchedule(rec, loanURLRequest(http.MethodPost, "/loans/5/schedule", "5", nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp []dto.AmortizationResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "24400.00", resp[0].AmountDue)
	})

	t.Run("rejects loan with existing schedule", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, logger)

		mockService.On("GenerateAmortization", mock.Anything, int64(6)).Return(nil, apperrors.ErrScheduleExists)

		rec := httptest.NewRecorder()
		handler.GenerateSchedule(rec, loanURLRequest(http.MethodPost, "/loans/6/schedule", "6", nil))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestLoanHandlerGetSchedule(t *testing.T) {
	mockService := new(MockLoanService)
	handler := NewLoanHandler(mockService, logger)

	paid := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	schedule := []loan.Amortization{
		{ID: 1, LoanID: 5, AmountDue: decimal.RequireFromString("24400.00"), Type: loan.TypeFullPayment, DueDate: paid, PaidDate: &paid},
		{ID: 2, LoanID: 5, AmountDue: decimal.RequireFromString("24400.00"), Type: loan.TypeFullPayment, DueDate: paid.AddDate(0, 1, 0)},
	}
	mockService.On("GetLoanSchedule", mock.Anything, int64(5)).Return(schedule, nil)

	rec := httptest.NewRecorder()
	handler.GetSchedule(rec, loanURLRequest(http.MethodGet, "/loans/5/schedule", "5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.AmortizationResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.NotNil(t, resp[0].PaidDate)
	assert.Nil(t, resp[1].PaidDate)
}

func TestLoanHandlerRecordPayment(t *testing.T) {
	t.Run("successfully records payment", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, logger)

		expected := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		mockService.On("RecordPayment", mock.Anything, int64(5), expected).Return(nil)

		body, _ := json.Marshal(dto.RecordPaymentRequest{PaidDate: "2024-03-01"})
		rec := httptest.NewRecorder()
		handler.RecordPayment(rec, loanURLRequest(http.MethodPost, "/loans/5/payments", "5", body))

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects payment on completed loan", func(t *testing.T) {
		mockService := new(MockLoanService)
		handler := NewLoanHandler(mockService, logger)

		mockService.On("RecordPayment", mock.Anything, int64(5), mock.Anything).Return(apperrors.ErrLoanCompleted)

		body, _ := json.Marshal(dto.RecordPaymentRequest{})
		rec := httptest.NewRecorder()
		handler.RecordPayment(rec, loanURLRequest(http.MethodPost, "/loans/5/payments", "5", body))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestLoanHandlerPreTerminate(t *testing.T) {
	mockService := new(MockLoanService)
	handler := NewLoanHandler(mockService, logger)

	mockService.On("PreTerminate", mock.Anything, int64(9), mock.Anything).Return(nil)

	rec := httptest.NewRecorder()
	handler.PreTerminate(rec, loanURLRequest(http.MethodPost, "/loans/9/preterminate", "9", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestLoanHandlerListPastDue(t *testing.T) {
	mockService := new(MockLoanService)
	handler := NewLoanHandler(mockService, logger)

	pastDue := []loan.Amortization{{
		ID:        3,
		LoanID:    9,
		AmountDue: decimal.RequireFromString("24400.00"),
		DueDate:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}}
	mockService.On("ListPastDue", mock.Anything, mock.Anything).Return(pastDue, nil)

	req := httptest.NewRequest(http.MethodGet, "/loans/pastdue", nil)
	rec := httptest.NewRecorder()

	handler.ListPastDue(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.PastDueResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, "9", resp[0].LoanID)
}

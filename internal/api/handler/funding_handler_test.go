package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"sharky/internal/api/handler/dto"
	"sharky/internal/domain/funding"
	"sharky/internal/pkg/apperrors"
)

type MockFundingService struct {
	mock.Mock
}

func (m *MockFundingService) CreateBank(ctx context.Context, name, abbreviation string) (*funding.Bank, error) {
	args := m.Called(ctx, name, abbreviation)
	if b, ok := args.Get(0).(*funding.Bank); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFundingService) ListBanks(ctx context.Context) ([]funding.Bank, error) {
	args := m.Called(ctx)
	if banks, ok := args.Get(0).([]funding.Bank); ok {
		return banks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFundingService) CreateCapitalSource(ctx context.Context, kind funding.SourceKind, bankID int64, name string, providerID *int64) (*funding.CapitalSource, error) {
	args := m.Called(ctx, kind, bankID, name, providerID)
	if cs, ok := args.Get(0).(*funding.CapitalSource); ok {
		return cs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFundingService) GetCapitalSource(ctx context.Context, sourceID int64) (*funding.CapitalSource, error) {
	args := m.Called(ctx, sourceID)
	if cs, ok := args.Get(0).(*funding.CapitalSource); ok {
		return cs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFundingService) ListCapitalSources(ctx context.Context) ([]funding.CapitalSource, error) {
	args := m.Called(ctx)
	if sources, ok := args.Get(0).([]funding.CapitalSource); ok {
		return sources, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFundingService) TotalPayableOutstanding(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ funding.FundingService = (*MockFundingService)(nil)

func TestFundingHandlerCreateBank(t *testing.T) {
	t.Run("successfully creates bank", func(t *testing.T) {
		mockService := new(MockFundingService)
		handler := NewFundingHandler(mockService, logger)

		created := &funding.Bank{ID: 3, Name: "Bank Central Asia", Abbreviation: "BCA"}
		mockService.On("CreateBank", mock.Anything, "Bank Central Asia", "BCA").Return(created, nil)

		body, _ := json.Marshal(dto.CreateBankRequest{Name: "Bank Central Asia", Abbreviation: "BCA"})
		req := httptest.NewRequest(http.MethodPost, "/banks", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CreateBank(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.BankResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		assert.NoError(t, err)
		assert.Equal(t, "3", resp.BankID)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		mockService := new(MockFundingService)
		handler := NewFundingHandler(mockService, logger)

		body, _ := json.Marshal(dto.CreateBankRequest{Name: "  "})
		req := httptest.NewRequest(http.MethodPost, "/banks", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CreateBank(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "CreateBank", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate bank", func(t *testing.T) {
		mockService := new(MockFundingService)
		handler := NewFundingHandler(mockService, logger)

		mockService.On("CreateBank", mock.Anything, "Bank Central Asia", "BCA").Return(nil, apperrors.ErrAlreadyExists)

		body, _ := json.Marshal(dto.CreateBankRequest{Name: "Bank Central Asia", Abbreviation: "BCA"})
		req := httptest.NewRequest(http.MethodPost, "/banks", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CreateBank(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestFundingHandlerListBanks(t *testing.T) {
	mockService := new(MockFundingService)
	handler := NewFundingHandler(mockService, logger)

	banks := []funding.Bank{{ID: 1, Name: "BCA"}, {ID: 2, Name: "Mandiri"}}
	mockService.On("ListBanks", mock.Anything).Return(banks, nil)

	req := httptest.NewRequest(http.MethodGet, "/banks", nil)
	rec := httptest.NewRecorder()

	handler.ListBanks(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.BankResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
}

func TestFundingHandlerCreateCapitalSource(t *testing.T) {
	t.Run("successfully creates capital source", func(t *testing.T) {
		mockService := new(MockFundingService)
		handler := NewFundingHandler(mockService, logger)

		created := &funding.CapitalSource{ID: 5, Kind: funding.KindSavings, BankID: 1, Name: "Own savings"}
		mockService.On("CreateCapitalSource", mock.Anything, funding.KindSavings, int64(1), "Own savings", (*int64)(nil)).
			Return(created, nil)

		body, _ := json.Marshal(dto.CreateCapitalSourceRequest{Kind: "savings", BankID: 1, Name: "Own savings"})
		req := httptest.NewRequest(http.MethodPost, "/capital-sources", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CreateCapitalSource(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.CapitalSourceResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		assert.NoError(t, err)
		assert.Equal(t, "5", resp.CapitalSourceID)
		assert.True(t, resp.SelfFunded)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects unknown source kind", func(t *testing.T) {
		mockService := new(MockFundingService)
		handler := NewFundingHandler(mockService, logger)

		body, _ := json.Marshal(dto.CreateCapitalSourceRequest{Kind: "bond", BankID: 1, Name: "Bonds"})
		req := httptest.NewRequest(http.MethodPost, "/capital-sources", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CreateCapitalSource(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "CreateCapitalSource", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFundingHandlerListCapitalSources(t *testing.T) {
	mockService := new(MockFundingService)
	handler := NewFundingHandler(mockService, logger)

	provider := int64(7)
	sources := []funding.CapitalSource{
		{ID: 1, Kind: funding.KindSavings, BankID: 1, Name: "Own savings"},
		{ID: 2, Kind: funding.KindCreditCard, BankID: 2, Name: "Visa", ProviderID: &provider},
	}
	mockService.On("ListCapitalSources", mock.Anything).Return(sources, nil)

	req := httptest.NewRequest(http.MethodGet, "/capital-sources", nil)
	rec := httptest.NewRecorder()

	handler.ListCapitalSources(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.CapitalSourceResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Nil(t, resp[0].ProviderID)
	assert.NotNil(t, resp[1].ProviderID)
}

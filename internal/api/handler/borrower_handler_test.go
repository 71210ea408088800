package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"sharky/internal/api/handler/dto"
	"sharky/internal/domain/borrower"
)

type MockBorrowerService struct {
	mock.Mock
}

func (m *MockBorrowerService) RegisterBorrower(ctx context.Context, email, firstName, lastName string) (*borrower.Borrower, error) {
	args := m.Called(ctx, email, firstName, lastName)
	if b, ok := args.Get(0).(*borrower.Borrower); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBorrowerService) GetBorrower(ctx context.Context, borrowerID int64) (*borrower.Borrower, error) {
	args := m.Called(ctx, borrowerID)
	if b, ok := args.Get(0).(*borrower.Borrower); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBorrowerService) ListBorrowers(ctx context.Context, activeOnly bool) ([]*borrower.Borrower, error) {
	args := m.Called(ctx, activeOnly)
	if borrowers, ok := args.Get(0).([]*borrower.Borrower); ok {
		return borrowers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBorrowerService) DeactivateBorrower(ctx context.Context, borrowerID int64) error {
	return m.Called(ctx, borrowerID).Error(0)
}

func (m *MockBorrowerService) ReactivateBorrower(ctx context.Context, borrowerID int64) error {
	return m.Called(ctx, borrowerID).Error(0)
}

var _ borrower.BorrowerService = (*MockBorrowerService)(nil)

func borrowerURLRequest(method, target, borrowerID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{Keys: []string{"borrowerID"}, Values: []string{borrowerID}},
	}))
}

func TestBorrowerHandlerRegister(t *testing.T) {
	t.Run("successfully registers borrower", func(t *testing.T) {
		mockService := new(MockBorrowerService)
		handler := NewBorrowerHandler(mockService, logger)

		registered := &borrower.Borrower{
			ID:               1,
			Email:            "jane.doe@example.com",
			FirstName:        "Jane",
			LastName:         "Doe",
			IsBorrower:       true,
			IsBorrowerActive: true,
		}
		mockService.On("RegisterBorrower", mock.Anything, "jane.doe@example.com", "Jane", "Doe").Return(registered, nil)

		body, _ := json.Marshal(dto.RegisterBorrowerRequest{Email: "jane.doe@example.com", FirstName: "Jane", LastName: "Doe"})
		req := httptest.NewRequest(http.MethodPost, "/borrowers", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.RegisterBorrower(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.BorrowerResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		assert.NoError(t, err)
		assert.Equal(t, "1", resp.BorrowerID)
		assert.Equal(t, "Jane Doe", resp.FullName)
		assert.True(t, resp.Active)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		mockService := new(MockBorrowerService)
		handler := NewBorrowerHandler(mockService, logger)

		body, _ := json.Marshal(dto.RegisterBorrowerRequest{Email: "not-an-email", FirstName: "Jane", LastName: "Doe"})
		req := httptest.NewRequest(http.MethodPost, "/borrowers", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.RegisterBorrower(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "RegisterBorrower", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		mockService := new(MockBorrowerService)
		handler := NewBorrowerHandler(mockService, logger)

		mockService.On("RegisterBorrower", mock.Anything, "jane.doe@example.com", "Jane", "Doe").
			Return(nil, borrower.ErrDuplicateEmail)

		body, _ := json.Marshal(dto.RegisterBorrowerRequest{Email: "jane.doe@example.com", FirstName: "Jane", LastName: "Doe"})
		req := httptest.NewRequest(http.MethodPost, "/borrowers", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.RegisterBorrower(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestBorrowerHandlerGet(t *testing.T) {
	t.Run("successfully retrieves borrower", func(t *testing.T) {
		mockService := new(MockBorrowerService)
		handler := NewBorrowerHandler(mockService, logger)

		b := &borrower.Borrower{ID: 42, Email: "jane.doe@example.com", FirstName: "Jane", LastName: "Doe", IsBorrowerActive: true}
		mockService.On("GetBorrower", mock.Anything, int64(42)).Return(b, nil)

		rec := httptest.NewRecorder()
		handler.GetBorrower(rec, borrowerURLRequest(http.MethodGet, "/borrowers/42", "42"))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.BorrowerResponse
		err := json.NewDecoder(rec.Body).Decode(&resp)
		assert.NoError(t, err)
		assert.Equal(t, "42", resp.BorrowerID)
	})

	t.Run("returns error for invalid borrower ID", func(t *testing.T) {
		mockService := new(MockBorrowerService)
		handler := NewBorrowerHandler(mockService, logger)

		rec := httptest.NewRecorder()
		handler.GetBorrower(rec, borrowerURLRequest(http.MethodGet, "/borrowers/abc", "abc"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns error when borrower not found", func(t *testing.T) {
		mockService := new(MockBorrowerService)
		handler := NewBorrowerHandler(mockService, logger)

		mockService.On("GetBorrower", mock.Anything, int64(404)).Return(nil, borrower.ErrNotFound)

		rec := httptest.NewRecorder()
		handler.GetBorrower(rec, borrowerURLRequest(http.MethodGet, "/borrowers/404", "404"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBorrowerHandlerList(t *testing.T) {
	mockService := new(MockBorrowerService)
	handler := NewBorrowerHandler(mockService, logger)

	borrowers := []*borrower.Borrower{{ID: 1}, {ID: 2}}
	mockService.On("ListBorrowers", mock.Anything, true).Return(borrowers, nil)

	req := httptest.NewRequest(http.MethodGet, "/borrowers?active=true", nil)
	rec := httptest.NewRecorder()

	handler.ListBorrowers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.BorrowerResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	mockService.AssertExpectations(t)
}

func TestBorrowerHandlerDeactivateAndReactivate(t *testing.T) {
	mockService := new(MockBorrowerService)
	handler := NewBorrowerHandler(mockService, logger)

	mockService.On("DeactivateBorrower", mock.Anything, int64(1)).Return(nil)
	mockService.On("ReactivateBorrower", mock.Anything, int64(1)).Return(nil)

	rec := httptest.NewRecorder()
	handler.DeactivateBorrower(rec, borrowerURLRequest(http.MethodDelete, "/borrowers/1", "1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.ReactivateBorrower(rec, borrowerURLRequest(http.MethodPut, "/borrowers/1/reactivate", "1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	mockService.AssertExpectations(t)
}

func TestBorrowerHandlerDeactivateNotFound(t *testing.T) {
	mockService := new(MockBorrowerService)
	handler := NewBorrowerHandler(mockService, logger)

	mockService.On("DeactivateBorrower", mock.Anything, int64(404)).Return(borrower.ErrNotFound)

	rec := httptest.NewRecorder()
	handler.DeactivateBorrower(rec, borrowerURLRequest(http.MethodDelete, "/borrowers/404", "404"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

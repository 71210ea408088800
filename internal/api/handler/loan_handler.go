package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"sharky/internal/api/handler/dto"
	"sharky/internal/domain/borrower"
	"sharky/internal/domain/loan"
	"sharky/internal/pkg/apperrors"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, borrower.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrScheduleExists), errors.Is(err, apperrors.ErrLoanCompleted):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrAlreadyExists), errors.Is(err, borrower.ErrDuplicateEmail):
		status, message = http.StatusConflict, err.Error()
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func getLoanIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "loanID")
	if idStr == "" {
		return 0, fmt.Errorf("loanID not found in URL path")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// CreateLoan handles the creation of a new loan.
//
// @Summary Create a new loan
// @Description Creates a loan for an active borrower. The amount, monthly interest rate, term in months and payment schedule are required. Funding allocations may be attached; their amounts must sum to the loan amount.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.CreateLoanRequest true "Loan creation request payload"
// @Success 201 {object} dto.LoanResponse "Loan successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [post]
// @Security BearerAuth
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	amount, _ := decimal.NewFromString(req.Amount)
	rate, _ := decimal.NewFromString(req.InterestRate)
	var loanDate, firstPaymentDate time.Time
	if req.LoanDate != "" {
		loanDate, _ = time.Parse(time.RFC3339[:10], req.LoanDate)
	}
	if req.FirstPaymentDate != "" {
		firstPaymentDate, _ = time.Parse(time.RFC3339[:10], req.FirstPaymentDate)
	}

	createdLoan, err := h.service.CreateLoan(r.Context(), req.BorrowerID, amount, rate, req.Term,
		loan.PaymentSchedule(req.PaymentSchedule), firstPaymentDate, loanDate, req.Allocations())
	if err != nil {
		respondError(w, err)
		return
	}

	resp := dto.NewLoanResponse(createdLoan, false)
	respondJSON(w, http.StatusCreated, resp)
}

// GetLoan retrieves the details of a specific loan.
//
// @Summary Retrieve loan details
// @Description Retrieves a loan by its ID. The amortization schedule can be included with the query parameter `include=schedule`.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param include query string false "Optional parameter to include the amortization schedule (use 'schedule')"
// @Success 200 {object} dto.LoanResponse "Loan details successfully retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID or request parameters"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	domainLoan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	includeSchedule := r.URL.Query().Get("include") == "schedule"
	resp := dto.NewLoanResponse(domainLoan, includeSchedule)
	respondJSON(w, http.StatusOK, resp)
}

// ListLoans lists the active loans.
//
// @Summary List active loans
// @Description Retrieves every loan that has not been completed yet.
// @Tags Loans
// @Produce json
// @Success 200 {array} dto.LoanResponse "List of active loans"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [get]
// @Security BearerAuth
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListActiveLoans(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]dto.LoanResponse, len(loans))
	for i, l := range loans {
		resp[i] = dto.NewLoanResponse(l, false)
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetSchedule retrieves the amortization schedule of a loan.
//
// @Summary Retrieve the amortization schedule
// @Description Retrieves the full installment schedule of a loan by its ID.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {array} dto.AmortizationResponse "Schedule successfully retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/schedule [get]
// @Security BearerAuth
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	schedule, err := h.service.GetLoanSchedule(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]dto.AmortizationResponse, len(schedule))
	for i := range schedule {
		resp[i] = dto.NewAmortizationResponse(&schedule[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// GenerateSchedule creates the amortization schedule for a loan.
//
// @Summary Generate the amortization schedule
// @Description Expands the loan into its dated installments. A loan that already has a schedule is rejected; drop and recreate the loan to change its terms.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 201 {array} dto.AmortizationResponse "Schedule successfully generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan already has a schedule or is completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/schedule [post]
// @Security BearerAuth
func (h *LoanHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	schedule, err := h.service.GenerateAmortization(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]dto.AmortizationResponse, len(schedule))
	for i := range schedule {
		resp[i] = dto.NewAmortizationResponse(&schedule[i])
	}
	respondJSON(w, http.StatusCreated, resp)
}

// RecordPayment marks the oldest unpaid installment of a loan as paid.
//
// @Summary Record an installment payment
// @Description Marks the oldest unpaid installment paid. The paid date defaults to today when omitted. Paying the final installment completes the loan.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param request body dto.RecordPaymentRequest true "Payment request payload"
// @Success 200 {object} map[string]string "Payment successfully recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID or request payload"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan is already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/payments [post]
// @Security BearerAuth
func (h *LoanHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.RecordPaymentRequest
	if err := decodeJSON(r, &req); err != nil || req.Validate() != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	paidDate := time.Now()
	if req.PaidDate != "" {
		paidDate, _ = time.Parse(time.RFC3339[:10], req.PaidDate)
	}

	if err := h.service.RecordPayment(r.Context(), loanID, paidDate); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Payment recorded"})
}

// PreTerminate settles a loan early.
//
// @Summary Pre-terminate a loan
// @Description Settles all remaining installments at once. Each unpaid installment is overwritten with a flat settlement amount and marked paid. Pre-terminating a completed loan is a no-op.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {object} map[string]string "Loan successfully pre-terminated"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/preterminate [post]
// @Security BearerAuth
func (h *LoanHandler) PreTerminate(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.service.PreTerminate(r.Context(), loanID, time.Now()); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Loan pre-terminated"})
}

// ListPastDue lists the installments past their due date.
//
// @Summary List past-due installments
// @Description Retrieves every unpaid installment whose due date is before today.
// @Tags Loans
// @Produce json
// @Success 200 {array} dto.PastDueResponse "List of past-due installments"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/pastdue [get]
// @Security BearerAuth
func (h *LoanHandler) ListPastDue(w http.ResponseWriter, r *http.Request) {
	pastDue, err := h.service.ListPastDue(r.Context(), time.Now())
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]dto.PastDueResponse, len(pastDue))
	for i := range pastDue {
		resp[i] = dto.NewPastDueResponse(&pastDue[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

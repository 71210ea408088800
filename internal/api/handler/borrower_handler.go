package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sharky/internal/api/handler/dto"
	"sharky/internal/domain/borrower"
	"sharky/internal/pkg/apperrors"
)

type BorrowerHandler struct {
	service borrower.BorrowerService
	logger  *slog.Logger
}

func NewBorrowerHandler(s borrower.BorrowerService, l *slog.Logger) *BorrowerHandler {
	if s == nil {
		panic("borrower service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &BorrowerHandler{
		service: s,
		logger:  l.With("component", "BorrowerHandler"),
	}
}

func getBorrowerIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "borrowerID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: borrowerID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid borrowerID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// RegisterBorrower handles POST /borrowers
// @Summary Register a new borrower
// @Description Registers a new borrower account with email, first name and last name. The email must be unique.
// @Tags Borrowers
// @Accept json
// @Produce json
// @Param request body dto.RegisterBorrowerRequest true "Borrower registration request"
// @Success 201 {object} dto.BorrowerResponse "Borrower successfully registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrowers [post]
// @Security BearerAuth
func (h *BorrowerHandler) RegisterBorrower(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received register borrower request")

	var req dto.RegisterBorrowerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	registered, err := h.service.RegisterBorrower(r.Context(), req.Email, req.FirstName, req.LastName)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, borrower.ErrDuplicateEmail) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to register borrower", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewBorrowerResponse(registered)
	h.logger.InfoContext(r.Context(), "Borrower registered successfully", slog.String("borrowerID", resp.BorrowerID))
	respondJSON(w, http.StatusCreated, resp)
}

// GetBorrower handles GET /borrowers/{borrowerID}
// @Summary Retrieve borrower details
// @Description Retrieves details for a specific borrower by their ID.
// @Tags Borrowers
// @Produce json
// @Param borrowerID path int true "Borrower ID" Minimum(1)
// @Success 200 {object} dto.BorrowerResponse "Borrower details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid borrower ID format"
// @Failure 404 {object} dto.ErrorResponse "Borrower not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrowers/{borrowerID} [get]
// @Security BearerAuth
func (h *BorrowerHandler) GetBorrower(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := getBorrowerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get borrower ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	b, err := h.service.GetBorrower(r.Context(), borrowerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, borrower.ErrNotFound) && !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get borrower", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewBorrowerResponse(b)
	h.logger.InfoContext(r.Context(), "Borrower retrieved successfully")
	respondJSON(w, http.StatusOK, resp)
}

// ListBorrowers handles GET /borrowers
// @Summary List borrowers
// @Description Retrieves a list of borrowers. Pass `active=true` to list only active borrowers.
// @Tags Borrowers
// @Produce json
// @Param active query bool false "Filter by active status" Example(true)
// @Success 200 {array} dto.BorrowerResponse "List of borrowers"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrowers [get]
// @Security BearerAuth
func (h *BorrowerHandler) ListBorrowers(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received list borrowers request")

	activeOnly := r.URL.Query().Get("active") == "true"
	borrowers, err := h.service.ListBorrowers(r.Context(), activeOnly)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list borrowers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.BorrowerResponse, len(borrowers))
	for i, b := range borrowers {
		resp[i] = dto.NewBorrowerResponse(b)
	}

	h.logger.InfoContext(r.Context(), "Borrowers listed successfully", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}

// DeactivateBorrower handles DELETE /borrowers/{borrowerID}
// @Summary Deactivate a borrower
// @Description Marks a borrower account as inactive. New loans cannot be issued to inactive borrowers.
// @Tags Borrowers
// @Produce json
// @Param borrowerID path int true "Borrower ID" Minimum(1)
// @Success 204 "Borrower successfully deactivated"
// @Failure 400 {object} dto.ErrorResponse "Invalid borrower ID"
// @Failure 404 {object} dto.ErrorResponse "Borrower not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrowers/{borrowerID} [delete]
// @Security BearerAuth
func (h *BorrowerHandler) DeactivateBorrower(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := getBorrowerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get borrower ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	err = h.service.DeactivateBorrower(r.Context(), borrowerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, borrower.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to deactivate borrower", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Borrower deactivated successfully")
	respondJSON(w, http.StatusNoContent, nil)
}

// ReactivateBorrower handles PUT /borrowers/{borrowerID}/reactivate
// @Summary Reactivate a borrower
// @Description Marks a borrower account as active again.
// @Tags Borrowers
// @Produce json
// @Param borrowerID path int true "Borrower ID" Minimum(1)
// @Success 204 "Borrower successfully reactivated"
// @Failure 400 {object} dto.ErrorResponse "Invalid borrower ID"
// @Failure 404 {object} dto.ErrorResponse "Borrower not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrowers/{borrowerID}/reactivate [put]
// @Security BearerAuth
func (h *BorrowerHandler) ReactivateBorrower(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := getBorrowerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get borrower ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	err = h.service.ReactivateBorrower(r.Context(), borrowerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, borrower.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to reactivate borrower", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Borrower reactivated successfully")
	respondJSON(w, http.StatusNoContent, nil)
}

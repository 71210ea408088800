package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"sharky/internal/api/handler/dto"
	"sharky/internal/domain/funding"
	"sharky/internal/pkg/apperrors"
)

type FundingHandler struct {
	service funding.FundingService
	logger  *slog.Logger
}

func NewFundingHandler(s funding.FundingService, l *slog.Logger) *FundingHandler {
	if s == nil {
		panic("funding service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &FundingHandler{
		service: s,
		logger:  l.With("component", "FundingHandler"),
	}
}

// CreateBank handles POST /banks
// @Summary Create a bank
// @Description Creates a bank reference record.
// @Tags Funding
// @Accept json
// @Produce json
// @Param request body dto.CreateBankRequest true "Bank creation request"
// @Success 201 {object} dto.BankResponse "Bank successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "Bank already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /banks [post]
// @Security BearerAuth
func (h *FundingHandler) CreateBank(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBankRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	bank, err := h.service.CreateBank(r.Context(), req.Name, req.Abbreviation)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to create bank", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewBankResponse(bank)
	h.logger.InfoContext(r.Context(), "Bank created successfully", slog.String("bankID", resp.BankID))
	respondJSON(w, http.StatusCreated, resp)
}

// ListBanks handles GET /banks
// @Summary List banks
// @Description Retrieves all banks ordered by name.
// @Tags Funding
// @Produce json
// @Success 200 {array} dto.BankResponse "List of banks"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /banks [get]
// @Security BearerAuth
func (h *FundingHandler) ListBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.service.ListBanks(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list banks", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.BankResponse, len(banks))
	for i := range banks {
		resp[i] = dto.NewBankResponse(&banks[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// CreateCapitalSource handles POST /capital-sources
// @Summary Create a capital source
// @Description Creates a funding origin: the business's own savings account, a credit card, or a cash loan. Omit providerId for a source owned by the business itself.
// @Tags Funding
// @Accept json
// @Produce json
// @Param request body dto.CreateCapitalSourceRequest true "Capital source creation request"
// @Success 201 {object} dto.CapitalSourceResponse "Capital source successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /capital-sources [post]
// @Security BearerAuth
func (h *FundingHandler) CreateCapitalSource(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCapitalSourceRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	source, err := h.service.CreateCapitalSource(r.Context(), funding.SourceKind(req.Kind), req.BankID, req.Name, req.ProviderID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to create capital source", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCapitalSourceResponse(source)
	h.logger.InfoContext(r.Context(), "Capital source created successfully", slog.String("capitalSourceID", resp.CapitalSourceID))
	respondJSON(w, http.StatusCreated, resp)
}

// ListCapitalSources handles GET /capital-sources
// @Summary List capital sources
// @Description Retrieves all capital sources.
// @Tags Funding
// @Produce json
// @Success 200 {array} dto.CapitalSourceResponse "List of capital sources"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /capital-sources [get]
// @Security BearerAuth
func (h *FundingHandler) ListCapitalSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.service.ListCapitalSources(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list capital sources", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.CapitalSourceResponse, len(sources))
	for i := range sources {
		resp[i] = dto.NewCapitalSourceResponse(&sources[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

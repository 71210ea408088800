package handler

import (
	"log/slog"
	"net/http"
	"time"

	"sharky/internal/api/handler/dto"
	"sharky/internal/domain/loan"
)

type DashboardHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewDashboardHandler(s loan.LoanService, l *slog.Logger) *DashboardHandler {
	if s == nil {
		panic("loan service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &DashboardHandler{
		service: s,
		logger:  l.With("component", "DashboardHandler"),
	}
}

// Earnings handles GET /dashboard/earnings
// @Summary Monthly earnings series
// @Description Returns twelve months of interest earned and principal receivable, starting five months before the current month.
// @Tags Dashboard
// @Produce json
// @Success 200 {array} dto.EarningsPointResponse "Earnings series"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/earnings [get]
// @Security BearerAuth
func (h *DashboardHandler) Earnings(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.EarningsSeries(r.Context(), time.Now())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to compute earnings series", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.EarningsPointResponse, len(points))
	for i := range points {
		resp[i] = dto.NewEarningsPointResponse(&points[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// SourceBreakdown handles GET /dashboard/sources
// @Summary Loan counts by funding kind
// @Description Returns how many loans are funded by savings, credit cards and cash loans. A loan funded from several kinds counts once per kind.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.SourceBreakdownResponse "Counts per funding kind"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/sources [get]
// @Security BearerAuth
func (h *DashboardHandler) SourceBreakdown(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.LoanSourceBreakdown(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to count loans by source kind", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewSourceBreakdownResponse(counts))
}

// Summary handles GET /dashboard/summary
// @Summary Portfolio summary
// @Description Returns the headline portfolio figures: active loan count, total interest gained, principal still receivable and capital source payables outstanding.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.SummaryResponse "Portfolio summary"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/summary [get]
// @Security BearerAuth
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to build portfolio summary", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewSummaryResponse(summary))
}

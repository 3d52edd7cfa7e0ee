package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fintrackd/fintrack_app/internal/apperrors"
	portssvc "github.com/fintrackd/fintrack_app/internal/core/ports/services"
	"github.com/fintrackd/fintrack_app/internal/dto"
	"github.com/fintrackd/fintrack_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for aggregated totals.
type reportingHandler struct {
	aggregationService portssvc.AggregationSvcFacade
	settingsService    portssvc.SettingsSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(as portssvc.AggregationSvcFacade, ss portssvc.SettingsSvcFacade) *reportingHandler {
	return &reportingHandler{
		aggregationService: as,
		settingsService:    ss,
	}
}

// registerReportingRoutes registers routes related to reporting.
func registerReportingRoutes(rg *gin.RouterGroup, as portssvc.AggregationSvcFacade, ss portssvc.SettingsSvcFacade) {
	h := newReportingHandler(as, ss)

	reports := rg.Group("/reports")
	{
		reports.GET("/totals", h.getTotals)
		reports.GET("/entries/:entryID/effective", h.getEffectiveAmount)
	}
}

// getTotals godoc
// @Summary Get aggregated totals
// @Description Returns income, expenses and net balance in the current default currency, for one book (bookID query param) or across all books (default)
// @Tags reports
// @Produce  json
// @Param   bookID query string false "Book ID, omit for all books"
// @Success 200 {object} dto.TotalsResponse
// @Failure 404 {object} map[string]string "Book not found"
// @Failure 500 {object} map[string]string "Failed to compute totals"
// @Router /reports/totals [get]
func (h *reportingHandler) getTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	bookID := c.Query("bookID")
	if bookID == "" {
		bookID = portssvc.AggregateAll
	}

	totals, err := h.aggregationService.Aggregate(c.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		} else {
			logger.Error("Failed to compute totals", slog.String("book_id", bookID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute totals"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTotalsResponse(totals))
}

// getEffectiveAmount godoc
// @Summary Get an entry's effective amount
// @Description Returns the entry's reconciled amount in the current default currency, for row-level display
// @Tags reports
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EffectiveAmountResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to compute effective amount"
// @Router /reports/entries/{entryID}/effective [get]
func (h *reportingHandler) getEffectiveAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	amount, err := h.aggregationService.EffectiveAmount(c.Request.Context(), entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			logger.Error("Failed to compute effective amount", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute effective amount"})
		}
		return
	}

	currency, err := h.settingsService.GetDefaultCurrency(c.Request.Context())
	if err != nil {
		logger.Error("Failed to read default currency", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute effective amount"})
		return
	}

	c.JSON(http.StatusOK, dto.EffectiveAmountResponse{
		EntryID:         entryID,
		EffectiveAmount: amount,
		CurrencyCode:    currency,
	})
}

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

// settingsHandler handles HTTP requests for user preferences.
type settingsHandler struct {
	settingsService portssvc.SettingsSvcFacade
}

// newSettingsHandler creates a new settingsHandler.
func newSettingsHandler(ss portssvc.SettingsSvcFacade) *settingsHandler {
	return &settingsHandler{
		settingsService: ss,
	}
}

// registerSettingsRoutes registers routes related to user preferences.
func registerSettingsRoutes(rg *gin.RouterGroup, ss portssvc.SettingsSvcFacade) {
	h := newSettingsHandler(ss)

	settings := rg.Group("/settings")
	{
		settings.GET("/default-currency", h.getDefaultCurrency)
		settings.PUT("/default-currency", h.setDefaultCurrency)
	}
}

// getDefaultCurrency godoc
// @Summary Get the default display currency
// @Tags settings
// @Produce  json
// @Success 200 {object} dto.DefaultCurrencyResponse
// @Failure 500 {object} map[string]string "Failed to read default currency"
// @Router /settings/default-currency [get]
func (h *settingsHandler) getDefaultCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currency, err := h.settingsService.GetDefaultCurrency(c.Request.Context())
	if err != nil {
		logger.Error("Failed to read default currency", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read default currency"})
		return
	}

	c.JSON(http.StatusOK, dto.DefaultCurrencyResponse{CurrencyCode: currency})
}

// setDefaultCurrency godoc
// @Summary Change the default display currency
// @Description Changes the currency all books normalize into. Existing book locks become stale and are repaired lazily on the next read.
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   currency body dto.UpdateDefaultCurrencyRequest true "New default currency"
// @Success 200 {object} dto.DefaultCurrencyResponse
// @Failure 400 {object} map[string]string "Invalid or unknown currency"
// @Failure 500 {object} map[string]string "Failed to update default currency"
// @Router /settings/default-currency [put]
func (h *settingsHandler) setDefaultCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateDefaultCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetDefaultCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.settingsService.SetDefaultCurrency(c.Request.Context(), req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Rejected default currency change", slog.String("currency_code", req.CurrencyCode), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update default currency", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update default currency"})
		}
		return
	}

	logger.Info("Default currency changed", slog.String("currency_code", req.CurrencyCode))
	c.JSON(http.StatusOK, dto.DefaultCurrencyResponse{CurrencyCode: req.CurrencyCode})
}

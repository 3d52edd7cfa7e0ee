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

// transferHandler handles HTTP requests for bulk entry transfers.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

// newTransferHandler creates a new transferHandler.
func newTransferHandler(ts portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{
		transferService: ts,
	}
}

// registerTransferRoutes registers routes related to bulk transfers.
func registerTransferRoutes(rg *gin.RouterGroup, ts portssvc.TransferSvcFacade) {
	h := newTransferHandler(ts)
	rg.POST("/transfers", h.transfer)
}

// transfer godoc
// @Summary Bulk transfer entries between books
// @Description Moves or copies the selected entries from the source book to the target book, applying one conversion rate to the whole batch. Entries are processed sequentially; a partial failure returns 207 with per-entry outcomes.
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.TransferResponse
// @Success 207 {object} dto.TransferResponse "Some entries failed"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Book not found"
// @Failure 500 {object} map[string]string "Failed to transfer entries"
// @Router /transfers [post]
func (h *transferHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.transferService.Transfer(c.Request.Context(), req)
	if err != nil {
		var partial *apperrors.PartialBatchError
		switch {
		case errors.As(err, &partial):
			logger.Warn("Bulk transfer partially failed",
				slog.Int("succeeded", len(partial.Succeeded)),
				slog.Int("failed", len(partial.Failed)),
			)
			c.JSON(http.StatusMultiStatus, dto.ToTransferResponse(result))
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		case errors.Is(err, apperrors.ErrNoSelection),
			errors.Is(err, apperrors.ErrSameBookTransfer),
			errors.Is(err, apperrors.ErrInvalidRate),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid transfer request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to transfer entries in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer entries"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferResponse(result))
}

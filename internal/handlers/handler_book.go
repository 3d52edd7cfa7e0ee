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

// bookHandler handles HTTP requests related to books.
type bookHandler struct {
	bookService     portssvc.BookSvcFacade
	fxService       portssvc.NormalizerSvc
	settingsService portssvc.SettingsSvcFacade
}

// newBookHandler creates a new bookHandler.
func newBookHandler(bs portssvc.BookSvcFacade, fx portssvc.NormalizerSvc, ss portssvc.SettingsSvcFacade) *bookHandler {
	return &bookHandler{
		bookService:     bs,
		fxService:       fx,
		settingsService: ss,
	}
}

// registerBookRoutes registers routes related to books.
func registerBookRoutes(rg *gin.RouterGroup, bs portssvc.BookSvcFacade, fx portssvc.NormalizerSvc, ss portssvc.SettingsSvcFacade) {
	h := newBookHandler(bs, fx, ss)

	books := rg.Group("/books")
	{
		books.POST("", h.createBook)
		books.GET("", h.listBooks)
		books.GET("/:bookID", h.getBookByID)
		books.PUT("/:bookID", h.updateBook)
		books.DELETE("/:bookID", h.deleteBook)
		books.GET("/:bookID/rate", h.previewRate)
		books.PUT("/:bookID/rate", h.lockRate)
		books.PUT("/:bookID/currency", h.changeCurrency)
	}
}

// createBook godoc
// @Summary Create a new book
// @Description Creates a book in the given currency and locks its exchange rate against the current default currency
// @Tags books
// @Accept  json
// @Produce  json
// @Param   book body dto.CreateBookRequest true "Book details"
// @Success 201 {object} dto.BookResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to create book"
// @Router /books [post]
func (h *bookHandler) createBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBook", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating book", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create book in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create book"})
		}
		return
	}

	logger.Info("Book created successfully", slog.String("book_id", book.BookID))
	c.JSON(http.StatusCreated, dto.ToBookResponse(book))
}

// listBooks godoc
// @Summary List all books
// @Description Retrieves all books with their locked-rate details
// @Tags books
// @Produce  json
// @Success 200 {array} dto.BookResponse
// @Failure 500 {object} map[string]string "Failed to list books"
// @Router /books [get]
func (h *bookHandler) listBooks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	books, err := h.bookService.ListBooks(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list books from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list books"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListBookResponse(books))
}

// getBookByID godoc
// @Summary Get a book by ID
// @Description Retrieves details for a specific book
// @Tags books
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Success 200 {object} dto.BookResponse
// @Failure 404 {object} map[string]string "Book not found"
// @Failure 500 {object} map[string]string "Failed to retrieve book"
// @Router /books/{bookID} [get]
func (h *bookHandler) getBookByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	book, err := h.bookService.GetBookByID(c.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Book not found", slog.String("book_id", bookID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		} else {
			logger.Error("Failed to get book from service", slog.String("book_id", bookID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve book"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBookResponse(book))
}

// updateBook godoc
// @Summary Update a book
// @Description Updates mutable book fields (name)
// @Tags books
// @Accept  json
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   book body dto.UpdateBookRequest true "Fields to update"
// @Success 200 {object} dto.BookResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Book not found"
// @Failure 500 {object} map[string]string "Failed to update book"
// @Router /books/{bookID} [put]
func (h *bookHandler) updateBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateBook", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	book, err := h.bookService.UpdateBook(c.Request.Context(), bookID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		} else {
			logger.Error("Failed to update book in service", slog.String("book_id", bookID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update book"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBookResponse(book))
}

// deleteBook godoc
// @Summary Delete a book
// @Description Removes a book and all of its entries
// @Tags books
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Success 204 "Book deleted"
// @Failure 404 {object} map[string]string "Book not found"
// @Failure 500 {object} map[string]string "Failed to delete book"
// @Router /books/{bookID} [delete]
func (h *bookHandler) deleteBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	if err := h.bookService.DeleteBook(c.Request.Context(), bookID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		} else {
			logger.Error("Failed to delete book in service", slog.String("book_id", bookID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete book"})
		}
		return
	}

	logger.Info("Book deleted successfully", slog.String("book_id", bookID))
	c.Status(http.StatusNoContent)
}

// previewRate godoc
// @Summary Preview the current exchange rate for a book
// @Description Shows the freshly fetched API rate next to the book's currently locked rate, for the rate editor
// @Tags books
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Success 200 {object} dto.RatePreviewResponse
// @Failure 404 {object} map[string]string "Book not found"
// @Failure 500 {object} map[string]string "Failed to preview rate"
// @Router /books/{bookID}/rate [get]
func (h *bookHandler) previewRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	book, err := h.bookService.GetBookByID(c.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		} else {
			logger.Error("Failed to get book from service", slog.String("book_id", bookID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to preview rate"})
		}
		return
	}

	defaultCurrency, err := h.settingsService.GetDefaultCurrency(c.Request.Context())
	if err != nil {
		logger.Error("Failed to read default currency", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to preview rate"})
		return
	}

	resp := dto.RatePreviewResponse{
		BookID:         book.BookID,
		FromCurrency:   book.CurrencyCode,
		ToCurrency:     defaultCurrency,
		LockedRate:     book.LockedRate,
		TargetCurrency: book.TargetCurrencyCode,
		RateLockedAt:   book.RateLockedAt,
	}

	// bookID deliberately omitted from the lookup: the preview shows the
	// live market rate, not the lock it would otherwise prefer.
	if rate, err := h.fxService.FetchRate(c.Request.Context(), book.CurrencyCode, defaultCurrency, ""); err != nil {
		logger.Warn("API rate unavailable for preview", slog.String("book_id", bookID), slog.String("error", err.Error()))
	} else {
		resp.APIRate = &rate
	}

	c.JSON(http.StatusOK, resp)
}

// lockRate godoc
// @Summary Lock a book's exchange rate
// @Description Overwrites the book's locked rate with a user-supplied value and renormalizes the book's entries. A rate deviating more than 10% from the current API rate must be confirmed.
// @Tags books
// @Accept  json
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   rate body dto.LockRateRequest true "New locked rate"
// @Success 200 {object} dto.BookResponse
// @Failure 400 {object} map[string]string "Invalid rate"
// @Failure 404 {object} map[string]string "Book not found"
// @Failure 409 {object} map[string]string "Rate deviates more than 10% from the API rate"
// @Failure 500 {object} map[string]string "Failed to lock rate"
// @Router /books/{bookID}/rate [put]
func (h *bookHandler) lockRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	var req dto.LockRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for LockRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	book, err := h.bookService.LockRate(c.Request.Context(), bookID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		case errors.Is(err, apperrors.ErrRateDeviation):
			logger.Warn("Unconfirmed rate deviation", slog.String("book_id", bookID), slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInvalidRate), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid rate lock request", slog.String("book_id", bookID), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to lock rate in service", slog.String("book_id", bookID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to lock rate"})
		}
		return
	}

	logger.Info("Rate locked successfully", slog.String("book_id", bookID))
	c.JSON(http.StatusOK, dto.ToBookResponse(book))
}

// changeCurrency godoc
// @Summary Change a book's currency
// @Description Switches the book to a new currency, refreshes the rate lock and renormalizes the book's entries
// @Tags books
// @Accept  json
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   currency body dto.ChangeCurrencyRequest true "New currency and optional manual rate"
// @Success 200 {object} dto.BookResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Book not found"
// @Failure 500 {object} map[string]string "Failed to change currency"
// @Router /books/{bookID}/currency [put]
func (h *bookHandler) changeCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	var req dto.ChangeCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ChangeCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	book, err := h.bookService.ChangeCurrency(c.Request.Context(), bookID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		case errors.Is(err, apperrors.ErrInvalidRate), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid currency change request", slog.String("book_id", bookID), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to change currency in service", slog.String("book_id", bookID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change currency"})
		}
		return
	}

	logger.Info("Book currency changed successfully", slog.String("book_id", bookID), slog.String("currency_code", book.CurrencyCode))
	c.JSON(http.StatusOK, dto.ToBookResponse(book))
}

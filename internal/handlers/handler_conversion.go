package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/atlasfx/fxrates/internal/apperrors"
	portssvc "github.com/atlasfx/fxrates/internal/core/ports/services"
	"github.com/atlasfx/fxrates/internal/dto"
	"github.com/atlasfx/fxrates/internal/middleware"
	"github.com/gin-gonic/gin"
)

// conversionHandler handles HTTP requests related to currency conversions.
type conversionHandler struct {
	conversionService portssvc.ConversionSvcFacade
}

// newConversionHandler creates a new conversionHandler.
func newConversionHandler(cs portssvc.ConversionSvcFacade) *conversionHandler {
	return &conversionHandler{
		conversionService: cs,
	}
}

// registerConversionRoutes registers routes related to conversions.
func registerConversionRoutes(rg *gin.RouterGroup, conversionService portssvc.ConversionSvcFacade) {
	h := newConversionHandler(conversionService)

	conversions := rg.Group("/conversions")
	{
		conversions.POST("", h.createConversion)
		conversions.GET("", h.listConversions)
	}
}

// createConversion godoc
// @Summary Convert an amount between two currencies
// @Description Resolves the current rate, applies the configured margin and records an immutable conversion audit
// @Tags conversions
// @Accept json
// @Produce json
// @Param conversion body dto.ConversionRequest true "Conversion details"
// @Success 201 {object} dto.ConversionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "No rate available for the pair"
// @Failure 500 {object} map[string]string "Conversion could not be recorded"
// @Router /conversions [post]
func (h *conversionHandler) createConversion(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind conversion request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error(), "kind": "validation"})
		return
	}

	base := strings.ToUpper(req.Base)
	target := strings.ToUpper(req.Target)
	if base == target {
		c.JSON(http.StatusBadRequest, gin.H{"error": "base and target currencies cannot be the same", "kind": "validation"})
		return
	}

	logger = logger.With(slog.String("base", base), slog.String("target", target), slog.String("amount", req.Amount.String()))

	result, err := h.conversionService.Convert(c.Request.Context(), req.Amount, base, target)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Conversion validation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "no current rate available for " + base + "/" + target, "kind": "not_found"})
		default:
			logger.Error("Conversion failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error during conversion", "kind": "internal"})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// listConversions godoc
// @Summary Browse recorded conversion audits
// @Description Lists immutable conversion audit rows, newest first
// @Tags conversions
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 50, max 200)"
// @Success 200 {object} dto.ListConversionsResponse
// @Failure 500 {object} map[string]string "Failed to list conversions"
// @Router /conversions [get]
func (h *conversionHandler) listConversions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	page, pageSize := parsePagination(c)

	audits, total, err := h.conversionService.ListConversions(c.Request.Context(), page, pageSize)
	if err != nil {
		logger.Error("Failed to list conversion audits", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list conversions", "kind": "internal"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListConversionsResponse(audits, total, page, pageSize))
}

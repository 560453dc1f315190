package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atlasfx/fxrates/internal/apperrors"
	portssvc "github.com/atlasfx/fxrates/internal/core/ports/services"
	"github.com/atlasfx/fxrates/internal/dto"
	"github.com/atlasfx/fxrates/internal/middleware"
	"github.com/atlasfx/fxrates/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// rateHandler handles HTTP requests related to exchange rates.
type rateHandler struct {
	rateService portssvc.RateSvcFacade
	cfg         *config.Config
}

// newRateHandler creates a new rateHandler.
func newRateHandler(rs portssvc.RateSvcFacade, cfg *config.Config) *rateHandler {
	return &rateHandler{
		rateService: rs,
		cfg:         cfg,
	}
}

// registerRateRoutes registers routes related to exchange rates.
func registerRateRoutes(rg *gin.RouterGroup, cfg *config.Config, rateService portssvc.RateSvcFacade) {
	h := newRateHandler(rateService, cfg)

	rates := rg.Group("/rates")
	{
		rates.GET("/latest", h.getLatestRate)
		rates.GET("", h.listRates)
	}
}

// getLatestRate godoc
// @Summary Get the latest rate for a currency pair
// @Description Resolves the current exchange rate for an arbitrary pair, deriving a cross rate through the pivot currency when needed
// @Tags rates
// @Produce json
// @Param base query string true "Base currency code (3 letters)"
// @Param target query string true "Target currency code (3 letters)"
// @Success 200 {object} dto.LatestRateResponse
// @Failure 400 {object} map[string]string "Invalid currency pair"
// @Failure 404 {object} map[string]string "No rate available for the pair"
// @Router /rates/latest [get]
func (h *rateHandler) getLatestRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query dto.LatestRateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind rate query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "base and target must be 3-letter currency codes", "kind": "validation"})
		return
	}

	base := strings.ToUpper(query.Base)
	target := strings.ToUpper(query.Target)
	if base == target {
		c.JSON(http.StatusBadRequest, gin.H{"error": "base and target currencies cannot be the same", "kind": "validation"})
		return
	}

	logger = logger.With(slog.String("base", base), slog.String("target", target))

	resolution, err := h.rateService.Resolve(c.Request.Context(), base, target)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no valid exchange rate found for " + base + "/" + target, "kind": "not_found"})
			return
		}
		logger.Error("Failed to resolve rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal service error during rate retrieval", "kind": "internal"})
		return
	}

	c.JSON(http.StatusOK, dto.LatestRateResponse{
		BaseCurrency:   resolution.BaseCurrency,
		TargetCurrency: resolution.TargetCurrency,
		Rate:           resolution.Rate,
		Margin:         h.cfg.ConversionMargin,
		FetchedAt:      time.Now().UTC(),
	})
}

// listRates godoc
// @Summary Browse stored rate history
// @Description Lists immutable rate records, newest first, with optional pair filters
// @Tags rates
// @Produce json
// @Param base query string false "Filter by base currency code"
// @Param target query string false "Filter by target currency code"
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 50, max 200)"
// @Success 200 {object} dto.ListRatesResponse
// @Failure 500 {object} map[string]string "Failed to list rates"
// @Router /rates [get]
func (h *rateHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	page, pageSize := parsePagination(c)

	var base, target *string
	if v := strings.ToUpper(c.Query("base")); v != "" {
		base = &v
	}
	if v := strings.ToUpper(c.Query("target")); v != "" {
		target = &v
	}

	rates, total, err := h.rateService.ListRates(c.Request.Context(), base, target, nil, page, pageSize)
	if err != nil {
		logger.Error("Failed to list rate records", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rates", "kind": "internal"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListRatesResponse(rates, total, page, pageSize))
}

// parsePagination reads page/pageSize query params with sane bounds.
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	if err != nil || pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return page, pageSize
}

package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/internal/tracker/service"
	"golang-stock-movers/pkg/common"
	"golang-stock-movers/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// StockHandler handles HTTP requests for stock records and the pipeline
// trigger.
type StockHandler struct {
	stockService    service.StockService
	pipelineService service.PipelineService
	logger          *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, pipelineService service.PipelineService, logger *logger.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, pipelineService: pipelineService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/daily", h.GetDailyMovers)
	g.GET("/history", h.GetHistory)
	g.GET("/wsb-trending", h.GetWSBTrending)
	g.POST("/fetch-movers", h.TriggerFetchMovers)
	g.GET("/:symbol", h.GetStockBySymbol)
}

// GetDailyMovers godoc
// @Summary Get daily movers
// @Description Get the top winners and losers for a trading date. Defaults to the most recent date with data.
// @Tags stocks
// @Produce json
// @Param date query string false "Date in YYYY-MM-DD format"
// @Success 200 {object} dto.DailyMoversResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/daily [get]
func (h *StockHandler) GetDailyMovers(c echo.Context) error {
	movers, err := h.stockService.GetDailyMovers(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Failed to get daily movers", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get daily movers"})
	}
	return c.JSON(http.StatusOK, movers)
}

// GetHistory godoc
// @Summary Get stock history
// @Description Get all persisted stock records from the last N days
// @Tags stocks
// @Produce json
// @Param days query int false "Number of days to look back" default(7)
// @Success 200 {array} entity.Stock
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/history [get]
func (h *StockHandler) GetHistory(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	stocks, err := h.stockService.GetHistory(c.Request().Context(), days)
	if err != nil {
		h.logger.Error("Failed to get stock history", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get stock history"})
	}
	return c.JSON(http.StatusOK, stocks)
}

// GetWSBTrending godoc
// @Summary Get WSB trending stocks
// @Description Get stocks flagged as trending on r/wallstreetbets for the most recent date with data
// @Tags stocks
// @Produce json
// @Success 200 {array} entity.Stock
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/wsb-trending [get]
func (h *StockHandler) GetWSBTrending(c echo.Context) error {
	stocks, err := h.stockService.GetWSBTrending(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get WSB trending stocks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get trending stocks"})
	}
	return c.JSON(http.StatusOK, stocks)
}

// GetStockBySymbol godoc
// @Summary Get a stock record
// @Description Get one symbol's record for a date, or its most recent record when no date is given
// @Tags stocks
// @Produce json
// @Param symbol path string true "Ticker symbol"
// @Param date query string false "Date in YYYY-MM-DD format"
// @Success 200 {object} entity.Stock
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{symbol} [get]
func (h *StockHandler) GetStockBySymbol(c echo.Context) error {
	stock, err := h.stockService.GetStockBySymbol(c.Request().Context(), c.Param("symbol"), c.QueryParam("date"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Stock not found"})
		default:
			h.logger.Error("Failed to get stock", logger.ErrorField(err))
			return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get stock"})
		}
	}
	return c.JSON(http.StatusOK, stock)
}

// TriggerFetchMovers godoc
// @Summary Trigger a pipeline run
// @Description Run the daily movers pipeline now. Rejected when another run is already in progress.
// @Tags stocks
// @Produce json
// @Param top_n query int false "Ranking depth for winners and losers" default(5)
// @Success 200 {object} dto.RunSummary
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/fetch-movers [post]
func (h *StockHandler) TriggerFetchMovers(c echo.Context) error {
	var topN int
	if raw := c.QueryParam("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid top_n value"})
		}
		topN = n
	}

	summary, err := h.pipelineService.Run(c.Request().Context(), dto.RunParams{
		TopN:          topN,
		TriggerSource: common.TriggerSourceManual,
	})
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Manual pipeline run failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, summary)
}

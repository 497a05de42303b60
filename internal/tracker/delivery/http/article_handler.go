package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/internal/tracker/service"
	"golang-stock-movers/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ArticleHandler handles HTTP requests for articles and stored news.
type ArticleHandler struct {
	articleService service.ArticleService
	logger         *logger.Logger
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(articleService service.ArticleService, logger *logger.Logger) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, logger: logger}
}

// RegisterRoutes registers the article routes to the Echo group.
func (h *ArticleHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/daily", h.GetDailyArticles)
	g.GET("/history", h.GetHistory)
	g.GET("/slug/:slug", h.GetArticleBySlug)
	g.GET("/stock/:symbol", h.GetArticlesBySymbol)
	g.GET("/stock/:symbol/news", h.GetNewsBySymbol)
	g.GET("/:id", h.GetArticleByID)
}

// GetDailyArticles godoc
// @Summary Get daily articles
// @Description Get the articles for a trading date with their stock records. Defaults to the most recent date with articles.
// @Tags articles
// @Produce json
// @Param date query string false "Date in YYYY-MM-DD format"
// @Success 200 {array} dto.ArticleWithStockResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /articles/daily [get]
func (h *ArticleHandler) GetDailyArticles(c echo.Context) error {
	articles, err := h.articleService.GetDailyArticles(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Failed to get daily articles", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get daily articles"})
	}
	return c.JSON(http.StatusOK, articles)
}

// GetHistory godoc
// @Summary Get article history
// @Description Get all articles from the last N days
// @Tags articles
// @Produce json
// @Param days query int false "Number of days to look back" default(7)
// @Success 200 {array} entity.Article
// @Failure 500 {object} dto.ErrorResponse
// @Router /articles/history [get]
func (h *ArticleHandler) GetHistory(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	articles, err := h.articleService.GetHistory(c.Request().Context(), days)
	if err != nil {
		h.logger.Error("Failed to get article history", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get article history"})
	}
	return c.JSON(http.StatusOK, articles)
}

// GetArticleByID godoc
// @Summary Get an article by ID
// @Description Get a single article by its numeric identifier
// @Tags articles
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} entity.Article
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /articles/{id} [get]
func (h *ArticleHandler) GetArticleByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid article ID"})
	}

	article, err := h.articleService.GetArticleByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Article not found"})
		}
		h.logger.Error("Failed to get article", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get article"})
	}
	return c.JSON(http.StatusOK, article)
}

// GetArticleBySlug godoc
// @Summary Get an article by slug
// @Description Get a single article by its SEO slug
// @Tags articles
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} entity.Article
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /articles/slug/{slug} [get]
func (h *ArticleHandler) GetArticleBySlug(c echo.Context) error {
	article, err := h.articleService.GetArticleBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Article not found"})
		}
		h.logger.Error("Failed to get article by slug", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get article"})
	}
	return c.JSON(http.StatusOK, article)
}

// GetArticlesBySymbol godoc
// @Summary Get articles for a symbol
// @Description Get the most recent articles covering one ticker symbol
// @Tags articles
// @Produce json
// @Param symbol path string true "Ticker symbol"
// @Param limit query int false "Maximum number of articles" default(10)
// @Success 200 {array} entity.Article
// @Failure 500 {object} dto.ErrorResponse
// @Router /articles/stock/{symbol} [get]
func (h *ArticleHandler) GetArticlesBySymbol(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	articles, err := h.articleService.GetArticlesBySymbol(c.Request().Context(), c.Param("symbol"), limit)
	if err != nil {
		h.logger.Error("Failed to get articles for symbol", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get articles"})
	}
	return c.JSON(http.StatusOK, articles)
}

// GetNewsBySymbol godoc
// @Summary Get news for a symbol
// @Description Get the stored news items for one ticker symbol, newest first
// @Tags articles
// @Produce json
// @Param symbol path string true "Ticker symbol"
// @Param limit query int false "Maximum number of news items" default(10)
// @Success 200 {array} entity.StockNews
// @Failure 500 {object} dto.ErrorResponse
// @Router /articles/stock/{symbol}/news [get]
func (h *ArticleHandler) GetNewsBySymbol(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	news, err := h.articleService.GetNewsBySymbol(c.Request().Context(), c.Param("symbol"), limit)
	if err != nil {
		h.logger.Error("Failed to get news for symbol", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get news"})
	}
	return c.JSON(http.StatusOK, news)
}

// Package router binds the retrieval endpoints onto the echo server and
// owns all transport-level input validation.
package router

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ognjenm/news-pulse/internal/apperr"
	"github.com/ognjenm/news-pulse/internal/news"
)

const (
	defaultLimit = 5
	maxLimit     = 20
)

type NewsRouter struct {
	e       *echo.Echo
	service *news.Service
}

func NewNewsRouter(e *echo.Echo, service *news.Service) *NewsRouter {
	return &NewsRouter{
		e:       e,
		service: service,
	}
}

func (r *NewsRouter) Bind() {
	g := r.e.Group("/api/v1/news")
	g.GET("/category", r.byCategory)
	g.GET("/source", r.bySource)
	g.GET("/score", r.byScore)
	g.GET("/search", r.bySearch)
	g.GET("/nearby", r.nearby)
	g.GET("/trending", r.trending)
	g.POST("/query", r.query)
}

func (r *NewsRouter) byCategory(c echo.Context) error {
	category := c.QueryParam("category")
	if category == "" {
		return apperr.NewValidation("category parameter is required")
	}

	articles, err := r.service.ByCategory(c.Request().Context(), category, limitParam(c))
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return apperr.NewNotFound("No articles found for category")
	}
	return c.JSON(http.StatusOK, mapToResponse(articles))
}

func (r *NewsRouter) bySource(c echo.Context) error {
	source := c.QueryParam("source")
	if source == "" {
		return apperr.NewValidation("source parameter is required")
	}

	articles, err := r.service.BySource(c.Request().Context(), source, limitParam(c))
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return apperr.NewNotFound("No articles found for source")
	}
	return c.JSON(http.StatusOK, mapToResponse(articles))
}

func (r *NewsRouter) byScore(c echo.Context) error {
	threshold := 0.7
	if raw := c.QueryParam("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			return apperr.NewValidation("threshold must be a number between 0 and 1")
		}
		threshold = parsed
	}

	articles, err := r.service.ByScore(c.Request().Context(), threshold, limitParam(c))
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return apperr.NewNotFound("No articles found above threshold")
	}
	return c.JSON(http.StatusOK, mapToResponse(articles))
}

func (r *NewsRouter) bySearch(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return apperr.NewValidation("query parameter is required")
	}

	articles, err := r.service.Search(c.Request().Context(), query, limitParam(c))
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return apperr.NewNotFound("No articles found for search query")
	}
	return c.JSON(http.StatusOK, mapToResponse(articles))
}

func (r *NewsRouter) nearby(c echo.Context) error {
	lat, lon, err := coordParams(c)
	if err != nil {
		return err
	}

	radius := 0.0
	if raw := c.QueryParam("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			return apperr.NewValidation("radius_km must be a positive number")
		}
		radius = parsed
	}

	articles, err := r.service.Nearby(c.Request().Context(), lat, lon, radius, limitParam(c))
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return apperr.NewNotFound("No nearby articles found")
	}
	return c.JSON(http.StatusOK, mapToResponse(articles))
}

func (r *NewsRouter) trending(c echo.Context) error {
	lat, lon, err := coordParams(c)
	if err != nil {
		return err
	}

	articles, err := r.service.Trending(c.Request().Context(), lat, lon, limitParam(c))
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return apperr.NewNotFound("No trending articles found")
	}
	return c.JSON(http.StatusOK, mapToResponse(articles))
}

func (r *NewsRouter) query(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if req.Query == "" {
		return apperr.NewValidation("query is required")
	}

	limit := req.MaxResults
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 || limit > maxLimit {
		return apperr.NewValidation("max_results must be between 1 and 20")
	}
	if err := validateOptionalCoords(req.Latitude, req.Longitude); err != nil {
		return err
	}

	result, err := r.service.Query(c.Request().Context(), req.Query, req.Latitude, req.Longitude, limit)
	if err != nil {
		return err
	}
	if len(result.Articles) == 0 {
		return apperr.NewNotFound("No articles matched the query")
	}

	return c.JSON(http.StatusOK, QueryResponse{
		Intent:   string(result.Intent),
		Value:    result.Value,
		Articles: mapToResponse(result.Articles),
	})
}

func limitParam(c echo.Context) int {
	raw := c.QueryParam("limit")
	if raw == "" {
		return defaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func coordParams(c echo.Context) (float64, float64, error) {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, apperr.NewValidation("lat must be a number between -90 and 90")
	}
	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, apperr.NewValidation("lon must be a number between -180 and 180")
	}
	return lat, lon, nil
}

func validateOptionalCoords(lat, lon *float64) error {
	if lat == nil && lon == nil {
		return nil
	}
	if lat == nil || lon == nil {
		return apperr.NewValidation("latitude and longitude must be provided together")
	}
	if *lat < -90 || *lat > 90 {
		return apperr.NewValidation("latitude must be between -90 and 90")
	}
	if *lon < -180 || *lon > 180 {
		return apperr.NewValidation("longitude must be between -180 and 180")
	}
	return nil
}

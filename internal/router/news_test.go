package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ognjenm/news-pulse/internal/apperr"
	"github.com/ognjenm/news-pulse/internal/domain"
	"github.com/ognjenm/news-pulse/internal/news"
	"github.com/ognjenm/news-pulse/internal/storage/in_mem"
)

func ptr(v float64) *float64 { return &v }

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	store := in_mem.NewStore()
	err := store.SaveArticles(t.Context(), []domain.Article{
		{
			ID:             "a1",
			Title:          "Harbor cleanup enters second phase",
			Description:    "Crews begin dredging the inner basin.",
			SourceName:     "Harbor Times",
			Categories:     []string{"Environment"},
			RelevanceScore: 0.8,
			PublishedAt:    time.Now().Add(-time.Hour),
			Latitude:       ptr(37.44),
			Longitude:      ptr(-122.14),
		},
		{
			ID:             "a2",
			Title:          "Council debates budget",
			Description:    "A long session ends without a vote.",
			SourceName:     "City Desk",
			Categories:     []string{"Policy"},
			RelevanceScore: 0.5,
			PublishedAt:    time.Now().Add(-30 * time.Minute),
		},
	})
	require.NoError(t, err)

	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()

	svc := news.NewService(store, nil, nil, nil, news.Config{})
	NewNewsRouter(e, svc).Bind()
	return e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCategoryEndpoint(t *testing.T) {
	e := newTestRouter(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/news/category?category=environment", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var articles []ArticleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &articles))
	require.Len(t, articles, 1)
	assert.Equal(t, "a1", articles[0].ID)
}

func TestCategoryRequiresParam(t *testing.T) {
	e := newTestRouter(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/news/category", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoryEmptyIsNotFound(t *testing.T) {
	e := newTestRouter(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/news/category?category=sports", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNearbyAnnotatesDistance(t *testing.T) {
	e := newTestRouter(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/news/nearby?lat=37.44&lon=-122.14", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var articles []ArticleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &articles))
	require.Len(t, articles, 1)
	require.NotNil(t, articles[0].DistanceKm)
	assert.InDelta(t, 0, *articles[0].DistanceKm, 0.001)
}

func TestNearbyRejectsBadCoordinates(t *testing.T) {
	e := newTestRouter(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/news/nearby?lat=91&lon=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrendingWithoutInteractionsIsNotFound(t *testing.T) {
	e := newTestRouter(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/news/trending?lat=37.44&lon=-122.14", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQueryEndpointResolvesSource(t *testing.T) {
	e := newTestRouter(t)

	rec := doRequest(e, http.MethodPost, "/api/v1/news/query",
		`{"query": "news from Harbor Times"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "source", resp.Intent)
	assert.Equal(t, "Harbor Times", resp.Value)
	require.Len(t, resp.Articles, 1)
	assert.Equal(t, "a1", resp.Articles[0].ID)
}

func TestQueryEndpointValidatesMaxResults(t *testing.T) {
	e := newTestRouter(t)

	rec := doRequest(e, http.MethodPost, "/api/v1/news/query",
		`{"query": "budget", "max_results": 50}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchRanksTitleMatchesFirst(t *testing.T) {
	e := newTestRouter(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/news/search?query=budget", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var articles []ArticleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &articles))
	require.NotEmpty(t, articles)
	assert.Equal(t, "a2", articles[0].ID)
	require.NotNil(t, articles[0].Score)
	assert.Greater(t, *articles[0].Score, 0.0)
}

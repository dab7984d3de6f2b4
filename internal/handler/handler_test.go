package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_catalog/internal/middleware"
	"github.com/GTDGit/gtd_catalog/internal/models"
	"github.com/GTDGit/gtd_catalog/internal/service"
	"github.com/GTDGit/gtd_catalog/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func intPtr(n int) *int { return &n }

func mug() *models.Product {
	return &models.Product{
		ID:       5,
		Title:    "Mug",
		Slug:     "mug",
		Price:    9.5,
		Quantity: nil,
		VariationTypes: []models.VariationType{
			{ID: 1, Name: "Color", Kind: models.VariationKindSelect, Options: []models.VariationTypeOption{
				{ID: 10, Name: "White"},
				{ID: 11, Name: "Black"},
			}},
		},
		Variations: []models.Variation{
			{ID: 50, ProductID: 5, OptionIDs: []int{11}, Price: 12, Quantity: intPtr(4)},
		},
	}
}

type stubCatalog struct{ p *models.Product }

func (s stubCatalog) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	if slug == s.p.Slug {
		return s.p, nil
	}
	return nil, sql.ErrNoRows
}

func (s stubCatalog) GetByID(_ context.Context, id int) (*models.Product, error) {
	if id == s.p.ID {
		return s.p, nil
	}
	return nil, sql.ErrNoRows
}

func (s stubCatalog) ListRecentSlugs(context.Context, int) ([]string, error) {
	return []string{s.p.Slug}, nil
}

type stubCarts struct{ items []models.CartItem }

func (s *stubCarts) Add(_ context.Context, item *models.CartItem) error {
	item.ID = len(s.items) + 1
	s.items = append(s.items, *item)
	return nil
}

type testEnv struct {
	router *gin.Engine
	carts  *stubCarts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	utils.ConfigureJWT("handler-secret", time.Hour)

	products := service.NewProductService(stubCatalog{p: mug()}, nil, nil)
	carts := &stubCarts{}

	r := gin.New()
	r.GET("/products/:slug", NewProductHandler(products).Show)
	r.POST("/cart/:productId", middleware.NewJWTMiddleware().Handle(), NewCartHandler(service.NewCartService(products, carts), time.Second).Store)
	r.GET("/health", NewHealthHandler(map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return nil }),
	}).GetHealth)
	return &testEnv{router: r, carts: carts}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type pageBody struct {
	Success bool `json:"success"`
	Data    struct {
		VariationOptions map[string]int `json:"variationOptions"`
		Selection        map[string]int `json:"selection"`
		Resolved         struct {
			Price           float64 `json:"price"`
			Quantity        any     `json:"quantity"`
			QuantityChoices []int   `json:"quantityChoices"`
			LowStockMessage string  `json:"lowStockMessage"`
		} `json:"resolved"`
	} `json:"data"`
	Error *utils.ErrorInfo `json:"error"`
}

func TestShowProductDefaultsToFirstOptions(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/products/mug", nil))
	require.Equal(t, 200, w.Code)

	var body pageBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Empty(t, body.Data.VariationOptions)
	assert.Equal(t, map[string]int{"1": 10}, body.Data.Selection)
	assert.Equal(t, 9.5, body.Data.Resolved.Price)
	assert.Equal(t, "unbounded", body.Data.Resolved.Quantity)
	assert.Len(t, body.Data.Resolved.QuantityChoices, 10)
}

func TestShowProductDecodesBothAddressForms(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{
		`/products/mug?options=%7B%221%22%3A11%7D`,
		`/products/mug?options%5B1%5D=11`,
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set(HeaderSoftNavigation, "true")
		w := env.do(req)
		require.Equal(t, 200, w.Code, target)
		assert.Equal(t, "true", w.Header().Get(HeaderSoftNavigation))

		var body pageBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, map[string]int{"1": 11}, body.Data.VariationOptions, target)
		assert.Equal(t, 12.0, body.Data.Resolved.Price, target)
		assert.Equal(t, "Only 4 left", body.Data.Resolved.LowStockMessage, target)
	}
}

func TestShowProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/products/teapot", nil))
	assert.Equal(t, 404, w.Code)

	var body pageBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "PRODUCT_NOT_FOUND", body.Error.Code)
}

func cartRequest(t *testing.T, path, body string, auth bool) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth {
		token, err := utils.GenerateJWT(9, "ana@example.com")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestCartStore(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(cartRequest(t, "/cart/5", `{"options_ids":{"1":"11"},"quantity":2}`, true))
	require.Equal(t, 201, w.Code, w.Body.String())

	require.Len(t, env.carts.items, 1)
	item := env.carts.items[0]
	assert.Equal(t, 9, item.CustomerID)
	assert.Equal(t, 12.0, item.Price)
	assert.Equal(t, "11", item.OptionsKey)
}

func TestCartStoreErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		auth   bool
		status int
		code   string
	}{
		{"unauthenticated", "/cart/5", `{"options_ids":{"1":11},"quantity":1}`, false, 401, "UNAUTHORIZED"},
		{"bad product id", "/cart/abc", `{"options_ids":{"1":11},"quantity":1}`, true, 400, "INVALID_REQUEST"},
		{"malformed body", "/cart/5", `{"options_ids":`, true, 400, "INVALID_REQUEST"},
		{"unknown product", "/cart/6", `{"options_ids":{"1":11},"quantity":1}`, true, 404, "PRODUCT_NOT_FOUND"},
		{"foreign option", "/cart/5", `{"options_ids":{"1":99},"quantity":1}`, true, 422, "INVALID_OPTIONS"},
		{"missing option", "/cart/5", `{"options_ids":{},"quantity":1}`, true, 422, "INCOMPLETE_OPTIONS"},
		{"over stock", "/cart/5", `{"options_ids":{"1":11},"quantity":5}`, true, 422, "INVALID_QUANTITY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.do(cartRequest(t, tt.path, tt.body, tt.auth))
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var body pageBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Empty(t, env.carts.items)
		})
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, 200, w.Code)

	r := gin.New()
	r.GET("/health", NewHealthHandler(map[string]Pinger{
		"redis": PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	}).GetHealth)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, 503, w.Code)
	assert.Contains(t, w.Body.String(), "redis")
}

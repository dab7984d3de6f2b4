package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_catalog/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestOriginHost(t *testing.T) {
	assert.Equal(t, "shop.example.com", originHost("https://shop.example.com:443/"))
	assert.Equal(t, "localhost:3000", originHost("http://localhost:3000"))
	assert.Empty(t, originHost("not a url"))
	assert.Empty(t, originHost(""))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"shop.example.com"}))
	r.GET("/products/:slug", func(c *gin.Context) { c.Status(200) })

	req := httptest.NewRequest(http.MethodGet, "/products/shirt", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/products/shirt", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/products/shirt", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestJWTMiddleware(t *testing.T) {
	utils.ConfigureJWT("middleware-secret", time.Hour)
	token, err := utils.GenerateJWT(42, "ana@example.com")
	require.NoError(t, err)

	r := gin.New()
	r.Use(NewJWTMiddleware().Handle())
	r.GET("/me", func(c *gin.Context) {
		c.JSON(200, gin.H{"id": CustomerID(c)})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", 401},
		{"wrong scheme", "Basic abc", 401},
		{"bad token", "Bearer nope", 401},
		{"valid", "Bearer " + token, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == 200 {
				assert.JSONEq(t, `{"id":42}`, w.Body.String())
			}
		})
	}
}

func TestInvalidAuthRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := &InvalidAuthRateLimiter{
		attempts: make(map[string]*attemptInfo),
		limit:    2,
		window:   time.Minute,
		now:      func() time.Time { return now },
	}

	r := gin.New()
	r.POST("/auth/login", rl.Handle(), func(c *gin.Context) {
		if c.Query("ok") == "1" {
			c.Status(200)
			return
		}
		c.Status(401)
	})

	send := func(q string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login"+q, nil))
		return w.Code
	}

	assert.Equal(t, 200, send("?ok=1"))
	assert.Equal(t, 401, send(""))
	assert.Equal(t, 401, send(""))
	assert.Equal(t, 429, send("?ok=1"))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 200, send("?ok=1"))
}

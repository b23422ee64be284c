package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bike-counter-api/config"
)

func authTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/protected", BasicAuth(cfg, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestBasicAuth_ValidCredentials(t *testing.T) {
	cfg := &config.Config{BasicAuthUser: "device", BasicAuthPassword: "secret", Location: time.UTC}
	r := authTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.SetBasicAuth("device", "secret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBasicAuth_MissingCredentials(t *testing.T) {
	cfg := &config.Config{BasicAuthUser: "device", BasicAuthPassword: "secret", Location: time.UTC}
	r := authTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), `realm="Bike Counter API"`)
	assert.Contains(t, w.Body.String(), "timestamp")
}

func TestBasicAuth_WrongPassword(t *testing.T) {
	cfg := &config.Config{BasicAuthUser: "device", BasicAuthPassword: "secret", Location: time.UTC}
	r := authTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.SetBasicAuth("device", "not-the-secret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestBasicAuth_UnconfiguredPasswordIsServerError(t *testing.T) {
	cfg := &config.Config{BasicAuthUser: "device", Location: time.UTC}
	r := authTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.SetBasicAuth("device", "anything")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server configuration error")
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, secureCompare("abc", "abc"))
	assert.False(t, secureCompare("abc", "abd"))
	assert.False(t, secureCompare("abc", "abcd"))
	assert.True(t, secureCompare("", ""))
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())
	r.POST("/api/daily-report", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/daily-report", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

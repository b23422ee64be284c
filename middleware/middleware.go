package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bike-counter-api/config"
	"bike-counter-api/utils"
)

// BasicAuth guards the ingestion endpoint. Credentials are compared in
// constant time; missing or invalid credentials abort before the
// handler runs, and failed attempts are logged with the remote address
// and attempted identity for audit.
func BasicAuth(cfg *config.Config, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.BasicAuthPassword == "" {
			log.Warn("BASIC_AUTH_PASSWORD not set in config")
			utils.SendError(c, http.StatusInternalServerError, "Server configuration error", cfg.Location)
			return
		}

		user, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="Bike Counter API"`)
			utils.SendError(c, http.StatusUnauthorized, "Authentication required - No valid credentials found", cfg.Location)
			return
		}

		if !secureCompare(user, cfg.BasicAuthUser) || !secureCompare(password, cfg.BasicAuthPassword) {
			log.Warn("failed authentication attempt",
				zap.String("remote_addr", c.ClientIP()),
				zap.String("user", user),
			)
			c.Header("WWW-Authenticate", `Basic realm="Bike Counter API"`)
			utils.SendError(c, http.StatusUnauthorized, "Invalid credentials", cfg.Location)
			return
		}

		c.Next()
	}
}

// secureCompare hashes both sides so the comparison leaks neither
// content nor length.
func secureCompare(given, expected string) bool {
	g := sha256.Sum256([]byte(given))
	e := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(g[:], e[:]) == 1
}

// RequestLogger logs one line per request with a generated request id.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()
		c.Set("request_id", requestID)

		c.Next()

		log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// CORS mirrors the permissive headers the device installation relies
// on and answers preflight requests directly.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

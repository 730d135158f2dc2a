// Package middleware provides gin middleware shared by every route.
package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/amaumene/gomoviesfr/internal/constants"
	"github.com/amaumene/gomoviesfr/internal/models"
	"github.com/amaumene/gomoviesfr/pkg/ratelimiter"
)

type gzipResponseWriter struct {
	gin.ResponseWriter
	gzipWriter *gzip.Writer
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	return w.gzipWriter.Write(data)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.gzipWriter.Write([]byte(s))
}

// Gzip compresses responses for clients that accept it.
func Gzip() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")

		gzipWriter := gzip.NewWriter(c.Writer)
		defer gzipWriter.Close()

		c.Writer = &gzipResponseWriter{
			ResponseWriter: c.Writer,
			gzipWriter:     gzipWriter,
		}

		c.Next()
	}
}

// CORS allows cross-origin browser access.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-User-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RateLimit bounds inbound request rate per client IP with one token bucket
// per client. Buckets are created on first contact and never expire; the
// client IP space of a single deployment stays small.
func RateLimit() gin.HandlerFunc {
	var (
		mu      sync.Mutex
		buckets = make(map[string]*ratelimiter.TokenBucket)
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		bucket, ok := buckets[ip]
		if !ok {
			bucket = ratelimiter.NewTokenBucket(constants.ClientRateBurst, constants.ClientRateLimit)
			buckets[ip] = bucket
		}
		mu.Unlock()

		if !bucket.TakeToken() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				models.Fail("RATE_LIMITED", "too many requests"))
			return
		}

		c.Next()
	}
}

// Logger logs one line per request with latency and status.
func Logger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		var event *zerolog.Event
		switch {
		case statusCode >= 500:
			event = log.Error()
		case statusCode >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}
		event.
			Str("client_ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Int("status", statusCode).
			Dur("latency", latency).
			Str("path", path).
			Send()
	}
}

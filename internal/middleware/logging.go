package middleware

import (
	"net/http"
	"strconv"
	"time"

	"creator_support/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// RequestID assigns a correlation id to each request, reusing the caller's when supplied
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs each request through logrus and records HTTP metrics. A panic is
// counted as a 500 and re-raised for Recovery, which sits outside this middleware.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.RequestStarted()
		defer func() {
			recovered := recover()
			status := c.Writer.Status()
			if recovered != nil {
				status = http.StatusInternalServerError
			}
			logRequest(c, status, time.Since(start))
			if recovered != nil {
				panic(recovered)
			}
		}()
		c.Next()
	}
}

func logRequest(c *gin.Context, status int, elapsed time.Duration) {
	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	metrics.RequestFinished(c.Request.Method, path, strconv.Itoa(status), elapsed.Seconds())

	entry := logrus.WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     status,
		"latency":    elapsed.String(),
		"client_ip":  c.ClientIP(),
		"request_id": c.GetString(RequestIDHeader),
	})
	switch {
	case status >= http.StatusInternalServerError:
		entry.Error("Request failed")
	case status >= http.StatusBadRequest:
		entry.Warn("Request rejected")
	default:
		entry.Info("Request handled")
	}
}

// Recovery converts panics into the catch-all 500 response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(RequestIDHeader),
			"panic":      recovered,
		}).Error("Unhandled panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong!"})
	})
}

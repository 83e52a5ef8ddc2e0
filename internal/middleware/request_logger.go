package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studylane/studylane-backend/internal/logger"
)

type RequestLogger struct {
	log *logger.Logger
}

func NewRequestLogger(log *logger.Logger) *RequestLogger {
	return &RequestLogger{log: log.With("middleware", "RequestLogger")}
}

// Handler logs one line per request with method, path, status and latency.
func (m *RequestLogger) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		switch {
		case status >= 500:
			m.log.Error("request failed", fields...)
		case status >= 400:
			m.log.Warn("request rejected", fields...)
		default:
			m.log.Info("request served", fields...)
		}
	}
}

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/counterpos/internal/logger"
	"github.com/sangkips/counterpos/internal/presentation/http/dto/response"
)

// LoggerMiddleware logs one structured line per request and tags the
// request with an ID
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(response.RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if staffID, ok := c.Get(StaffIDKey); ok {
			fields = append(fields, "staff_id", staffID)
		}

		switch {
		case len(c.Errors) > 0:
			log.Errorw("request failed", append(fields, "errors", c.Errors.String())...)
		case c.Writer.Status() >= 500:
			log.Errorw("request failed", fields...)
		default:
			log.Infow("request", fields...)
		}
	}
}

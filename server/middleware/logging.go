package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechkit/logger"
)

// quietPaths are polled by orchestrators and not worth a log line each.
var quietPaths = map[string]bool{
	"/health":  true,
	"/version": true,
}

// RequestLogger logs every request with method, path, status and duration.
// 5xx responses log at error, 4xx at warn, everything else at debug.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if quietPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"method":             c.Request.Method,
			logger.FieldPath:     c.Request.URL.Path,
			logger.FieldStatus:   status,
			logger.FieldDuration: time.Since(start).Milliseconds(),
			"client":             c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields[logger.FieldError] = c.Errors.String()
		}

		l := log.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			l.Error("request completed", fields)
		case status >= 400:
			l.Warn("request completed", fields)
		default:
			l.Debug("request completed", fields)
		}
	}
}

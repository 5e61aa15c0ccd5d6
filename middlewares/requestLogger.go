package middlewares

import (
	"time"

	"github.com/RichardToddFidelis/reporting-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request with the correlation id so
// failures can be traced back to a specific call.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		fields := logrus.Fields{
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"status":         c.Writer.Status(),
			"durationMs":     time.Since(start).Milliseconds(),
			"correlation_id": correlationId,
		}

		for _, ginErr := range c.Errors {
			logger.WithFields(fields).Error(ginErr.Error())
		}

		if c.Writer.Status() >= 500 {
			logger.WithFields(fields).Error("request failed")
			return
		}
		logger.WithFields(fields).Info("request completed")
	}
}

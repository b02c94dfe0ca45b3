package http

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"users-api/internal/apperr"
)

var errPanic = errors.New("panic during request handling")

// recovery turns a panic into a 500 carrying only the catalog message.
func recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"panic": fmt.Sprint(recovered),
		}).Error("recovered from panic")

		kind := apperr.InternalServerError
		_ = c.Error(apperr.New(kind, errPanic))
		c.AbortWithStatusJSON(kind.Status(), ErrorResponse{Message: kind.Message()})
	})
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	pid := os.Getpid()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"pid":     pid,
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		})
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			entry = entry.WithField("error", errs.String())
		}
		entry.Debug("handled request")
	}
}

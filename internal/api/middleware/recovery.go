package middleware

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/postboard/pkg/logger"
	"github.com/d60-Lab/postboard/pkg/response"
)

// Recovery 捕获 panic，记录日志并上报 Sentry，返回 500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}
		logger.Error("panic recovered",
			zap.Error(err),
			zap.String("request_id", c.GetString(response.RequestIDKey)),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		if hub := sentry.CurrentHub(); hub.Client() != nil {
			hub.Recover(recovered)
		}
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		c.Abort()
	})
}

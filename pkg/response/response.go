// Package response writes the JSON bodies shared by every handler.
//
// Error bodies come in three shapes, kept from the public API:
//
//	{"errorMessage": "..."}  missing required input
//	{"error": "..."}         invalid input or a failed store call
//	{"message": "..."}       not found / rejected reference
package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/postboard/pkg/logger"
)

// RequestIDKey gin 上下文中请求 ID 的键
const RequestIDKey = "request_id"

func OK(c *gin.Context, data any) { c.JSON(http.StatusOK, data) }

func Created(c *gin.Context, data any) { c.JSON(http.StatusCreated, data) }

// BadRequest 缺少必填字段
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"errorMessage": msg})
}

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func NotFound(c *gin.Context, msg string) { Message(c, http.StatusNotFound, msg) }

// InternalError 记录真实原因并上报 Sentry，响应体只带固定文案
func InternalError(c *gin.Context, msg string, err error) {
	logger.Error(msg,
		zap.Error(err),
		zap.String("request_id", c.GetString(RequestIDKey)),
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
	)
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("route", c.FullPath())
			scope.SetTag("request_id", c.GetString(RequestIDKey))
			hub.CaptureException(err)
		})
	}
	Error(c, http.StatusInternalServerError, msg)
}

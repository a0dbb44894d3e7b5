// Package handler parses HTTP requests, calls the services and maps their
// results to status codes and response bodies.
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/postboard/internal/service"
	"github.com/d60-Lab/postboard/pkg/response"
)

// Pinger 健康检查依赖
type Pinger func(ctx context.Context) error

type Handler struct {
	userService service.UserService
	postService service.PostService
	ping        Pinger
}

func New(userService service.UserService, postService service.PostService, ping Pinger) *Handler {
	return &Handler{userService: userService, postService: postService, ping: ping}
}

const invalidBodyMsg = "Invalid request body."

// bindJSON 空请求体按空对象处理，由服务层给出缺字段的错误
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, invalidBodyMsg)
		return false
	}
	return true
}

// pathID 非数字 ID 视为不存在
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Home 根路径
// @Summary 首页
// @Tags 系统
// @Produce plain
// @Success 200 {string} string "You are HOME!"
// @Router / [get]
func (h *Handler) Home(c *gin.Context) {
	c.String(http.StatusOK, "You are HOME!")
}

// Health 存活与数据库连通性检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/postboard/pkg/response"
)

const (
	maxBodyBytes   = 1 << 20
	invalidJSONMsg = "Request body is not valid JSON."
)

// JSONBody 在进入路由处理前校验 JSON 请求体；非 JSON 请求不处理
func JSONBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.ContentType() != gin.MIMEJSON {
			c.Next()
			return
		}

		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
		_ = c.Request.Body.Close()
		if err != nil {
			response.Error(c, http.StatusBadRequest, invalidJSONMsg)
			c.Abort()
			return
		}
		if len(raw) > maxBodyBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, "Request body is too large.")
			c.Abort()
			return
		}
		if len(bytes.TrimSpace(raw)) > 0 && !json.Valid(raw) {
			response.Error(c, http.StatusBadRequest, invalidJSONMsg)
			c.Abort()
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		c.Next()
	}
}

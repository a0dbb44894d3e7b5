package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/postboard/pkg/response"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.POST("/echo", func(c *gin.Context) {
		raw, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "application/json", raw)
	})
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJSONBodyRejectsMalformed(t *testing.T) {
	r := newEngine(JSONBody())

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(r, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Request body is not valid JSON."}`, w.Body.String())
}

func TestJSONBodyPassesValidBodyThrough(t *testing.T) {
	r := newEngine(JSONBody())

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w := serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"x"}`, w.Body.String())
}

func TestJSONBodyIgnoresOtherContentTypes(t *testing.T) {
	r := newEngine(JSONBody())

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "text/plain")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/echo", nil)
	req.Header.Set("Content-Type", "application/json")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJSONBodyTooLarge(t *testing.T) {
	r := newEngine(JSONBody())

	body := `"` + strings.Repeat("a", maxBodyBytes) + `"`
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := serve(r, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS())

	w := serve(r, httptest.NewRequest(http.MethodOptions, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	r := newEngine(SecurityHeaders())

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	assert.Empty(t, w.Header().Get("X-Powered-By"))
}

func TestRequestID(t *testing.T) {
	var seen string
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { seen = c.GetString(response.RequestIDKey) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCombinedLogFormatter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/users?x=1", nil)
	req.Header.Set("User-Agent", "curl/8.0")
	req.Header.Set("Referer", "http://example.com/")

	line := CombinedLogFormatter(gin.LogFormatterParams{
		Request:    req,
		TimeStamp:  time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC),
		StatusCode: 200,
		ClientIP:   "10.0.0.1",
		Method:     http.MethodGet,
		Path:       "/api/users?x=1",
		BodySize:   42,
	})

	assert.Equal(t,
		`10.0.0.1 - - [05/Mar/2024:14:07:09 +0000] "GET /api/users?x=1 HTTP/1.1" 200 42 "http://example.com/" "curl/8.0"`+"\n",
		line)
}

func TestAccessLogWritesOneLinePerRequest(t *testing.T) {
	var buf bytes.Buffer
	r := newEngine(AccessLog(&buf))

	serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"GET /ping HTTP/1.1" 200 4 "-" "-"`)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	r := newEngine(rl.Handler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil)).Code)
	}
	assert.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)

	rl.Cleanup(time.Now().Add(time.Hour))
	assert.Empty(t, rl.visitors)
}

func TestRecovery(t *testing.T) {
	r := newEngine(Recovery())

	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

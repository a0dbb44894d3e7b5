package middleware

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
)

const clfTime = "02/Jan/2006:15:04:05 -0700"

// CombinedLogFormatter 输出一行 Apache combined 格式日志
func CombinedLogFormatter(p gin.LogFormatterParams) string {
	size := "-"
	if p.BodySize >= 0 {
		size = strconv.Itoa(p.BodySize)
	}
	proto := "HTTP/1.1"
	referer, agent := "-", "-"
	if p.Request != nil {
		proto = p.Request.Proto
		if v := p.Request.Referer(); v != "" {
			referer = v
		}
		if v := p.Request.UserAgent(); v != "" {
			agent = v
		}
	}
	return fmt.Sprintf("%s - - [%s] \"%s %s %s\" %d %s \"%s\" \"%s\"\n",
		p.ClientIP,
		p.TimeStamp.Format(clfTime),
		p.Method,
		p.Path,
		proto,
		p.StatusCode,
		size,
		referer,
		agent,
	)
}

// AccessLog 每个请求按 combined 格式写入 out
func AccessLog(out io.Writer) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: CombinedLogFormatter,
		Output:    out,
	})
}

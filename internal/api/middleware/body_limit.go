package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classroom-booking/backend/pkg/response"
)

// BodyLimit 请求体大小限制
// 超限时 Bind 返回 *http.MaxBytesError，若 handler 未写响应则由此处补 413
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.Writer.Written() {
			return
		}
		for _, e := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(e.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}

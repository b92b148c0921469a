package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for boundaries, part headers and small fields
// around the file itself.
const multipartOverhead = 4 << 10

// LimitUploadBody stops reading a request body after maxFileBytes plus the
// multipart overhead, so oversized uploads are never spooled to disk.
func LimitUploadBody(maxFileBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxFileBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFileBytes+multipartOverhead)
		}
		c.Next()
	}
}

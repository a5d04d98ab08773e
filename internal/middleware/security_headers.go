package middleware

import "github.com/gin-gonic/gin"

func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := c.Writer.Header()

		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("X-XSS-Protection", "1; mode=block")
		headers.Set("Referrer-Policy", "no-referrer")
		// Uploaded photos are served from the same origin.
		headers.Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:")

		c.Next()
	}
}

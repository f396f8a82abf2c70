package http

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds security headers to all responses.
// analyticsOrigin, when set, is allowed to serve scripts and receive events.
func SecurityHeadersMiddleware(analyticsOrigin string) gin.HandlerFunc {
	scriptSrc := "'self' 'unsafe-inline'"
	connectSrc := "'self'"
	if analyticsOrigin != "" {
		scriptSrc += " " + analyticsOrigin
		connectSrc += " " + analyticsOrigin
	}

	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Card art is hotlinked from the lookup services and store uploads.
		c.Header("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src "+scriptSrc+"; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data: https:; "+
				"font-src 'self'; "+
				"connect-src "+connectSrc+"; "+
				"frame-ancestors 'none'; "+
				"form-action 'self'")

		// Orientation sensors drive the card tilt.
		c.Header("Permissions-Policy",
			"accelerometer=(self), "+
				"camera=(), "+
				"geolocation=(), "+
				"gyroscope=(self), "+
				"magnetometer=(), "+
				"microphone=(), "+
				"payment=(), "+
				"usb=()")

		c.Next()
	}
}

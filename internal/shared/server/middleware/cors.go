package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const corsMaxAge = "600"

// CORSOptions configures the cross-origin policy applied to every route.
type CORSOptions struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

// CORS sets CORS headers and handles preflight requests. An origin of "*"
// allows any caller; the request origin is echoed back so credentials work.
func CORS(opts CORSOptions) gin.HandlerFunc {
	origins := make(map[string]struct{})
	allowAny := false
	for _, o := range opts.AllowOrigins {
		trimmed := strings.TrimSpace(o)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			allowAny = true
			continue
		}
		origins[trimmed] = struct{}{}
	}
	methods := strings.Join(opts.AllowMethods, ",")
	if methods == "" {
		methods = "GET,POST,PUT,DELETE,OPTIONS"
	}
	headers := strings.Join(append(append([]string{}, opts.AllowHeaders...), "X-Request-Id"), ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			_, ok := origins[origin]
			if ok || allowAny {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				h.Set("Access-Control-Expose-Headers", "X-Request-Id")
				h.Set("Access-Control-Max-Age", corsMaxAge)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		c.Next()
	}
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder-backend/internal/services/health"
	"resume-builder-backend/internal/shared/config"
	"resume-builder-backend/internal/shared/metrics"
	"resume-builder-backend/internal/shared/server/middleware"
	"resume-builder-backend/internal/shared/server/respond"
	"resume-builder-backend/internal/userdetails"
	"resume-builder-backend/internal/users"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config             config.Config
	UsersHandler       *users.Handler
	UserDetailsHandler *userdetails.Handler
	Health             *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	cfg := deps.Config
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(middleware.CORSOptions{
			AllowOrigins: cfg.CORSAllowOrigin,
			AllowMethods: cfg.CORSAllowMethods,
			AllowHeaders: cfg.CORSAllowHeaders,
		}),
		middleware.BodyLimit(cfg.BodyLimitBytes),
		middleware.Timeout(cfg.RequestTimeout),
	)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "This is backend")
	})
	r.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, health.Status{OK: true, Store: cfg.StoreDriver})
			return
		}
		st := deps.Health.Status(c.Request.Context())
		if !st.OK {
			respond.JSON(c, http.StatusServiceUnavailable, st)
			return
		}
		respond.OK(c, st)
	})

	r.GET("/metrics", metrics.Handler())

	root := &r.RouterGroup
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(root)
	}
	if deps.UserDetailsHandler != nil {
		deps.UserDetailsHandler.RegisterRoutes(root)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5001"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

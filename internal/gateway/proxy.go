package gateway

import (
	"fmt"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/soa-tours/platform/internal/http/middleware"
	"github.com/soa-tours/platform/internal/pkg/logger"
)

// NewRouter builds the gin engine that fronts every service. Auth stays
// with the services; the gateway only routes and reports health.
func NewRouter(cfg *Config, log *logger.Logger, mode string) (*gin.Engine, error) {
	if mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog(log))
	router.Use(middleware.CORS(nil))

	checker := NewHealthChecker(cfg, log)
	router.GET("/health", checker.Handler)

	for _, route := range cfg.Routes {
		target, err := url.Parse(route.Target)
		if err != nil {
			return nil, fmt.Errorf("invalid target for %s: %w", route.Name, err)
		}
		proxy := httputil.NewSingleHostReverseProxy(target)
		prefix := route.Prefix
		handler := func(c *gin.Context) {
			c.Request.URL.Path = strings.TrimPrefix(c.Request.URL.Path, prefix)
			if !strings.HasPrefix(c.Request.URL.Path, "/") {
				c.Request.URL.Path = "/" + c.Request.URL.Path
			}
			proxy.ServeHTTP(c.Writer, c.Request)
		}
		router.Any(prefix+"/*path", handler)
	}
	return router, nil
}

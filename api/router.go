package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/localdocs/api/handlers"
)

func (s *server) setupRoutes(router *gin.Engine) {
	router.GET("/health", health())
	router.GET("/healthz", plainStatus("ok\n"))
	router.GET("/readyz", plainStatus("ready\n"))

	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	handlers.SetupMCP(router, s.logger, handlers.MCPOptions{
		Path:      s.cfg.GetMCPPath(),
		Server:    s.mcpServer,
		Sessions:  s.sessions,
		Validator: s.validator,
		LogBodies: s.cfg.ShouldLogBodies(),
	})
	handlers.SetupSearch(router, s.logger, s.searchService)
	handlers.SetupFetch(router, s.logger, s.fetchService)
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

// plainStatus answers container liveness and readiness checks.
func plainStatus(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())

	return router
}

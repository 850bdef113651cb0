package route

import (
	"net/http"

	"github.com/bassista/go_preview/internal/api/middleware"
	"github.com/bassista/go_preview/internal/app"
	"github.com/bassista/go_preview/internal/logger"
	"github.com/gin-gonic/gin"
)

// SetupRoutes builds the engine serving the index, previews, proxied theme
// assets, component static files and the live-reload socket.
func SetupRoutes(appCtx *app.App) *gin.Engine {
	r := gin.New()
	r.Use(middleware.HoneybadgerMiddleware(logger.WithComponent("honeybadger")))
	r.Use(gin.LoggerWithWriter(logger.Logger.Writer()))
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UP",
		})
	})

	timeout := appCtx.Config.Server.RequestTimeout

	NewProxyRouter(timeout, r.Group("/proxy"), appCtx)
	NewPreviewRouter(timeout, r, appCtx)
	NewLiveReloadRouter(r, appCtx)

	r.Static("/static", appCtx.Catalog.Dir())

	return r
}

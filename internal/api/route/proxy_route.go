package route

import (
	"net/http"
	"time"

	"github.com/bassista/go_preview/internal/api/controller"
	"github.com/bassista/go_preview/internal/api/middleware"
	"github.com/bassista/go_preview/internal/app"
	"github.com/gin-gonic/gin"
)

func NewProxyRouter(timeout time.Duration, group *gin.RouterGroup, appCtx *app.App) {
	group.Use(middleware.CORSMiddleware(appCtx.Config.Server.CORSAllowedOrigins))
	group.Use(middleware.RequestTimeout(timeout))

	pc := controller.NewProxyController(appCtx.Stores, appCtx.Cache)

	group.GET("/:store/:asset", pc.Serve)
	// preflights are answered by the CORS middleware; anything else ends here
	group.OPTIONS("/:store/:asset", func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNoContent)
	})
}

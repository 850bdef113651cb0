package route

import (
	"time"

	"github.com/bassista/go_preview/internal/api/controller"
	"github.com/bassista/go_preview/internal/api/middleware"
	"github.com/bassista/go_preview/internal/app"
	"github.com/gin-gonic/gin"
)

// NewPreviewRouter registers the index and the component preview page. The
// index also accepts websocket upgrades, so it runs without a deadline.
func NewPreviewRouter(timeout time.Duration, r *gin.Engine, appCtx *app.App) {
	pc := controller.NewPreviewController(appCtx.Pages, appCtx.Hub.Handler())

	r.GET("/", pc.Index)
	r.GET("/:store/components/:component", middleware.RequestTimeout(timeout), pc.Show)
}

package route

import (
	"github.com/bassista/go_preview/internal/app"
	"github.com/bassista/go_preview/internal/livereload"
	"github.com/gin-gonic/gin"
)

func NewLiveReloadRouter(r *gin.Engine, appCtx *app.App) {
	r.GET(livereload.Path, gin.WrapH(appCtx.Hub.Handler()))
}

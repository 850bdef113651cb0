package controller

import (
	"context"
	"net/http"

	"github.com/bassista/go_preview/internal/apperror"
	"github.com/bassista/go_preview/internal/livereload"
	"github.com/bassista/go_preview/internal/logger"
	"github.com/gin-gonic/gin"
)

// PageComposer builds the HTML documents served by PreviewController.
type PageComposer interface {
	Compose(ctx context.Context, storeID, component string) (string, error)
	Index() (string, error)
}

type PreviewController struct {
	pages  PageComposer
	reload http.Handler
}

// NewPreviewController creates the controller for the index and preview pages.
// reload receives websocket upgrades that arrive on the index route.
func NewPreviewController(pages PageComposer, reload http.Handler) *PreviewController {
	return &PreviewController{pages: pages, reload: reload}
}

// Index handles GET /.
func (pc *PreviewController) Index(c *gin.Context) {
	if pc.reload != nil && livereload.IsUpgrade(c.Request) {
		pc.reload.ServeHTTP(c.Writer, c.Request)
		c.Abort()
		return
	}

	page, err := pc.pages.Index()
	if err != nil {
		fail(c, logger.WithComponent("index"), err, "Error reading components directory")
		return
	}
	c.Data(http.StatusOK, contentTypeHTML, []byte(page))
}

// Show handles GET /:store/components/:component.
func (pc *PreviewController) Show(c *gin.Context) {
	storeID := c.Param("store")
	component := c.Param("component")
	log := logger.WithStore("preview", storeID).WithField("component", component)

	page, err := pc.pages.Compose(c.Request.Context(), storeID, component)
	if err != nil {
		message := "Error rendering component"
		if apperror.Is(err, apperror.KindConfiguration) {
			message = "Unknown store " + storeID
		}
		fail(c, log, err, message)
		return
	}
	c.Data(http.StatusOK, contentTypeHTML, []byte(page))
}

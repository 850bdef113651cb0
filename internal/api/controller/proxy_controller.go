package controller

import (
	"fmt"
	"net/http"

	"github.com/bassista/go_preview/internal/apperror"
	"github.com/bassista/go_preview/internal/cache"
	"github.com/bassista/go_preview/internal/config"
	"github.com/bassista/go_preview/internal/logger"
	"github.com/gin-gonic/gin"
)

// ProxyController serves a store's remote theme assets from the local origin.
type ProxyController struct {
	stores config.Stores
	assets cache.AssetStore
}

func NewProxyController(stores config.Stores, assets cache.AssetStore) *ProxyController {
	return &ProxyController{stores: stores, assets: assets}
}

// Serve handles GET /proxy/:store/:asset. The cache is only consulted for
// assets declared in the store configuration.
func (pc *ProxyController) Serve(c *gin.Context) {
	storeID := c.Param("store")
	asset := c.Param("asset")
	log := logger.WithStore("proxy", storeID).WithField("asset", asset)

	store, ok := pc.stores.Lookup(storeID)
	if !ok {
		fail(c, log, apperror.Configuration("proxy", fmt.Errorf("unknown store %q", storeID)),
			"Error getting remote URL from config")
		return
	}
	url, ok := store.AssetURL(asset)
	if !ok {
		fail(c, log, apperror.Configuration("proxy", fmt.Errorf("store %q declares no asset %q", storeID, asset)),
			"Error getting remote URL from config")
		return
	}

	entry, err := pc.assets.GetOrFetch(c.Request.Context(), storeID, asset, url)
	if err != nil {
		fail(c, log, err, "Error fetching remote asset")
		return
	}
	c.Data(http.StatusOK, entry.ContentType, entry.Body)
}

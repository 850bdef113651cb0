package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bassista/go_preview/internal/logger"
	"github.com/gin-gonic/gin"
)

func TestHoneybadgerMiddleware_DisabledPassesThrough(t *testing.T) {
	t.Setenv("HONEYBADGER_API_KEY", "")

	r := gin.New()
	r.Use(HoneybadgerMiddleware(logger.WithComponent("honeybadger")))
	r.GET("/proxy/:store/:asset", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "Error fetching remote asset")
	})

	req := httptest.NewRequest(http.MethodGet, "/proxy/vitafy/jsThemeUrl", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected handler status to pass through, got %d", w.Code)
	}
	if w.Body.String() != "Error fetching remote asset" {
		t.Errorf("unexpected body '%s'", w.Body.String())
	}
}

package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/bassista/go_preview/internal/apperror"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
)

// fail answers with a plain-text diagnostic whose status follows the error kind.
// When the request itself ended, nothing is written: an expired deadline is
// answered by the timeout middleware and a canceled client is gone.
func fail(c *gin.Context, log *logrus.Entry, err error, message string) {
	if reqErr := c.Request.Context().Err(); reqErr != nil && errors.Is(err, reqErr) {
		if errors.Is(reqErr, context.DeadlineExceeded) {
			log.Warnf("%s %s timed out: %v", c.Request.Method, c.Request.URL.Path, err)
		} else {
			log.Debugf("%s %s canceled by client", c.Request.Method, c.Request.URL.Path)
		}
		return
	}

	status := apperror.HTTPStatus(err)
	if status == http.StatusNotFound {
		log.Warn(err)
	} else {
		log.Errorf("%s: %v", message, err)
	}
	c.Data(status, contentTypeText, []byte(message))
}

package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// notFoundError names the missing resource while still matching
// entities.ErrNotFound.
type notFoundError struct {
	resource string
}

func (e notFoundError) Error() string {
	return e.resource + " not found"
}

func (e notFoundError) Unwrap() error {
	return entities.ErrNotFound
}

// lookupError attaches the resource name to a not-found error and context to
// anything else.
func lookupError(resource string, err error) error {
	if errors.Is(err, entities.ErrNotFound) {
		return notFoundError{resource: resource}
	}
	return fmt.Errorf("load %s: %w", resource, err)
}

// statusFor maps an error kind to its response status.
func statusFor(err error) int {
	if errors.Is(err, entities.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ErrorHandler renders the last error a handler pushed with c.Error. It is
// the only place where error kinds become status codes.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		ginErr := c.Errors.Last()
		if ginErr == nil || c.Writer.Written() {
			return
		}

		status := statusFor(ginErr.Err)
		message := http.StatusText(status)
		if status == http.StatusNotFound {
			message = ginErr.Err.Error()
			log.Debug("not found", zap.String("path", c.Request.URL.Path), zap.Error(ginErr.Err))
		} else {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(ginErr.Err))
		}

		c.HTML(status, "error", gin.H{
			"Title":   message,
			"Status":  status,
			"Message": message,
		})
	}
}

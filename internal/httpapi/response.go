package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/x7ian/jstopia/internal/engine"
)

// envelope is the body of every API response.
type envelope struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func respond(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{OK: true, Data: data})
}

func jsonError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, envelope{Error: msg})
}

// statusFor maps engine error kinds onto HTTP statuses.
func statusFor(err error) int {
	var (
		inv *engine.ErrInvalidRequest
		nf  *engine.ErrNotFound
		cf  *engine.ErrConflict
		su  *engine.ErrStorageUnavailable
	)
	switch {
	case errors.As(err, &inv):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &cf):
		return http.StatusConflict
	case errors.As(err, &su):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail answers with the status for err. The request logger reports err, so
// internal details never reach the client.
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		if status == http.StatusServiceUnavailable {
			msg = "storage unavailable"
		} else {
			msg = "internal error"
		}
	}
	jsonError(c, status, msg)
}

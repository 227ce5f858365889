package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sessionKey is the gin context key carrying the session token of a request
// whose token arrived in the JSON body.
const sessionKey = "jstopia.session"

// tokenBearer is implemented by request bodies that carry a session token.
type tokenBearer interface {
	sessionToken() string
}

// requestSession returns the session a request acts for, from the bound body
// or the sessionToken query parameter.
func requestSession(c *gin.Context) string {
	if tok := c.GetString(sessionKey); tok != "" {
		return tok
	}
	return query(c, "sessionToken")
}

// RequestLogger logs one line per API call after it completes, keyed by the
// route template and the session it acted for. Failures carry the engine
// error recorded by the handler; successful calls log at debug.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("route", route),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		if tok := requestSession(c); tok != "" {
			fields = append(fields, zap.String("session", tok))
		}
		if last := c.Errors.Last(); last != nil {
			fields = append(fields, zap.Error(last.Err))
		}

		switch {
		case status >= 500:
			log.Error("api call failed", fields...)
		case status >= 400:
			log.Warn("api call rejected", fields...)
		default:
			log.Debug("api call", fields...)
		}
	}
}

// Package httpapi exposes the engine over JSON HTTP with gin. Every response
// uses the {"ok": …, "data"|"error": …} envelope.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/x7ian/jstopia/internal/engine"
)

// Server holds the handler dependencies.
type Server struct {
	eng *engine.Engine
}

// NewRouter builds the gin engine with all routes and middleware. metrics may
// be nil, which disables the /metrics route.
func NewRouter(eng *engine.Engine, log *zap.Logger, metrics *Metrics) *gin.Engine {
	s := &Server{eng: eng}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	if metrics != nil {
		router.Use(metrics.Middleware())
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	router.NoRoute(func(c *gin.Context) {
		jsonError(c, http.StatusNotFound, "route not found")
	})

	api := router.Group("/api")
	{
		api.GET("/readyz", s.ready)

		api.POST("/session/start", s.startSession)

		api.GET("/quiz/next", s.nextQuestion)
		api.POST("/quiz/answer", s.submitAnswer)

		api.GET("/journey", s.journey)
		api.GET("/topic", s.topic)
		api.GET("/topic/weak-spots", s.weakSpots)
		api.POST("/lesson/complete", s.completeLesson)

		api.GET("/rank", s.rank)
		api.POST("/boss-exam/start", s.startBossExam)
		api.POST("/boss-exam/finish", s.finishBossExam)

		api.GET("/streak", s.streak)
		api.POST("/streak/hint", s.spendHint)

		api.GET("/stats", s.stats)
	}
	return router
}

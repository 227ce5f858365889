package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for HTTP traffic and engine
// events. It satisfies engine.Observer.
type Metrics struct {
	gatherer prometheus.Gatherer

	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	answers      *prometheus.CounterVec
	scoreAwarded *prometheus.CounterVec
	topicsDone   *prometheus.CounterVec
	promotions   *prometheus.CounterVec
	bossExams    *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jstopia_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jstopia_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		answers: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jstopia_answers_total",
			Help: "Submitted answers by phase and correctness",
		}, []string{"phase", "correct"}),
		scoreAwarded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jstopia_score_awarded_total",
			Help: "XP awarded by phase",
		}, []string{"phase"}),
		topicsDone: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jstopia_topics_completed_total",
			Help: "Topic completions by topic",
		}, []string{"topic"}),
		promotions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jstopia_rank_promotions_total",
			Help: "Rank promotions by new rank",
		}, []string{"rank"}),
		bossExams: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jstopia_boss_exams_total",
			Help: "Finished boss exams by rank and result",
		}, []string{"rank", "result"}),
	}
}

func (m *Metrics) AnswerSubmitted(phase string, correct bool, scoreDelta int) {
	m.answers.WithLabelValues(phase, strconv.FormatBool(correct)).Inc()
	if scoreDelta > 0 {
		m.scoreAwarded.WithLabelValues(phase).Add(float64(scoreDelta))
	}
}

func (m *Metrics) TopicCompleted(topicSlug string) {
	m.topicsDone.WithLabelValues(topicSlug).Inc()
}

func (m *Metrics) RankPromoted(rankSlug string) {
	m.promotions.WithLabelValues(rankSlug).Inc()
}

func (m *Metrics) BossExamFinished(rankSlug string, passed bool) {
	result := "failed"
	if passed {
		result = "passed"
	}
	m.bossExams.WithLabelValues(rankSlug, result).Inc()
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/x7ian/jstopia/internal/engine"
	"github.com/x7ian/jstopia/internal/scoring"
)

type sessionRequest struct {
	Token string `json:"sessionToken"`
}

func (r sessionRequest) sessionToken() string { return strings.TrimSpace(r.Token) }

type lessonRequest struct {
	sessionRequest
	TopicSlug string `json:"topicSlug"`
}

type bossStartRequest struct {
	sessionRequest
	RankSlug string `json:"rankSlug"`
	BookSlug string `json:"bookSlug"`
}

type hintRequest struct {
	sessionRequest
	Scope string `json:"scope"`
}

type answerRequest struct{ engine.AnswerRequest }

func (r answerRequest) sessionToken() string { return strings.TrimSpace(r.Token) }

type bossFinishRequest struct{ engine.BossExamSummary }

func (r bossFinishRequest) sessionToken() string { return strings.TrimSpace(r.Token) }

// bindJSON decodes the body into dst and records its session token for the
// request log. An empty body leaves dst zeroed so the engine reports the
// missing fields.
func bindJSON(c *gin.Context, dst tokenBearer) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(err)
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	c.Set(sessionKey, dst.sessionToken())
	return true
}

func query(c *gin.Context, key string) string {
	return strings.TrimSpace(c.Query(key))
}

func (s *Server) ready(c *gin.Context) {
	if err := s.eng.Ready(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, gin.H{"status": "ready"})
}

func (s *Server) startSession(c *gin.Context) {
	var req sessionRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := s.eng.StartSession(c.Request.Context(), strings.TrimSpace(req.Token))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, res)
}

func (s *Server) nextQuestion(c *gin.Context) {
	req := engine.NextQuestionRequest{
		Token:      query(c, "sessionToken"),
		TopicSlug:  query(c, "topicSlug"),
		Phase:      scoring.Phase(query(c, "phase")),
		RankSlug:   query(c, "rankSlug"),
		Difficulty: scoring.Difficulty(query(c, "difficulty")),
	}
	res, err := s.eng.NextQuestion(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, res)
}

func (s *Server) submitAnswer(c *gin.Context) {
	var req answerRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := s.eng.SubmitAnswer(c.Request.Context(), req.AnswerRequest)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, res)
}

func (s *Server) journey(c *gin.Context) {
	books, err := s.eng.Journey(c.Request.Context(), query(c, "sessionToken"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, gin.H{"books": books})
}

func (s *Server) topic(c *gin.Context) {
	slug := query(c, "slug")
	if slug == "" {
		slug = query(c, "topicSlug")
	}
	res, err := s.eng.Topic(c.Request.Context(), query(c, "sessionToken"), slug)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, res)
}

func (s *Server) weakSpots(c *gin.Context) {
	spots, err := s.eng.WeakSpots(c.Request.Context(), query(c, "sessionToken"), query(c, "topicSlug"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if spots == nil {
		spots = []engine.WeakSpot{}
	}
	respond(c, gin.H{"weakSpots": spots})
}

func (s *Server) completeLesson(c *gin.Context) {
	var req lessonRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := s.eng.CompleteLesson(c.Request.Context(), req.Token, strings.TrimSpace(req.TopicSlug))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, res)
}

func (s *Server) rank(c *gin.Context) {
	res, err := s.eng.Rank(c.Request.Context(), query(c, "sessionToken"), query(c, "bookSlug"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, res)
}

func (s *Server) startBossExam(c *gin.Context) {
	var req bossStartRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := s.eng.StartBossExam(c.Request.Context(), req.Token, strings.TrimSpace(req.RankSlug), strings.TrimSpace(req.BookSlug))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, res)
}

func (s *Server) finishBossExam(c *gin.Context) {
	var req bossFinishRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := s.eng.FinishBossExam(c.Request.Context(), req.BossExamSummary)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, res)
}

func (s *Server) streak(c *gin.Context) {
	res, err := s.eng.Streak(c.Request.Context(), query(c, "sessionToken"), query(c, "scope"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, res)
}

func (s *Server) spendHint(c *gin.Context) {
	var req hintRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := s.eng.SpendHintToken(c.Request.Context(), req.Token, strings.TrimSpace(req.Scope))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, res)
}

func (s *Server) stats(c *gin.Context) {
	res, err := s.eng.Stats(c.Request.Context(), query(c, "sessionToken"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, res)
}

package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/x7ian/jstopia/internal/catalog"
	"github.com/x7ian/jstopia/internal/engine"
	"github.com/x7ian/jstopia/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiResponse struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *Metrics) {
	t.Helper()
	return newTestRouterWithLogger(t, zap.NewNop())
}

func newTestRouterWithLogger(t *testing.T, log *zap.Logger) (*gin.Engine, *Metrics) {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cat, err := catalog.Default()
	require.NoError(t, err)

	m := NewMetrics(prometheus.NewRegistry())
	eng := engine.New(st, cat, engine.WithObserver(m))
	return NewRouter(eng, log, m), m
}

func do(t *testing.T, r http.Handler, method, target string, body any) (int, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func startSession(t *testing.T, r http.Handler) string {
	t.Helper()
	code, res := do(t, r, http.MethodPost, "/api/session/start", nil)
	require.Equal(t, http.StatusOK, code)
	require.True(t, res.OK)

	var data struct {
		Token   string `json:"sessionToken"`
		Created bool   `json:"created"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestStartSession_Idempotent(t *testing.T) {
	r, _ := newTestRouter(t)
	token := startSession(t, r)

	code, res := do(t, r, http.MethodPost, "/api/session/start", gin.H{"sessionToken": token})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(res.Data), token)
	assert.Contains(t, string(res.Data), `"created":false`)
}

func TestSubmitAnswer_RoundTrip(t *testing.T) {
	r, _ := newTestRouter(t)
	token := startSession(t, r)

	code, res := do(t, r, http.MethodPost, "/api/quiz/answer", gin.H{
		"sessionToken": token,
		"questionId":   "vars-let-block",
		"selected":     " ReferenceError ",
		"helpUsed":     "none",
		"elapsedMs":    4200,
	})
	require.Equal(t, http.StatusOK, code, res.Error)

	var ans engine.AnswerResult
	require.NoError(t, json.Unmarshal(res.Data, &ans))
	assert.True(t, ans.Correct)
	assert.Positive(t, ans.ScoreDelta)
	assert.Equal(t, ans.ScoreDelta, ans.TotalScore)
	assert.Nil(t, ans.Teleport)

	code, res = do(t, r, http.MethodPost, "/api/quiz/answer", gin.H{
		"sessionToken": token,
		"questionId":   "vars-let-block",
		"selected":     "Prints 1",
	})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(res.Data, &ans))
	assert.False(t, ans.Correct)
	require.NotNil(t, ans.Teleport)
	assert.Equal(t, "block-scope-vs-function-scope", ans.Teleport.Anchor)
}

func TestErrorMapping(t *testing.T) {
	r, _ := newTestRouter(t)
	token := startSession(t, r)

	tests := []struct {
		name   string
		method string
		target string
		body   any
		want   int
	}{
		{"missing answer fields", http.MethodPost, "/api/quiz/answer", gin.H{"sessionToken": token}, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/quiz/answer", "not an object", http.StatusBadRequest},
		{"unknown question", http.MethodPost, "/api/quiz/answer", gin.H{"sessionToken": token, "questionId": "nope", "selected": "x"}, http.StatusNotFound},
		{"bad phase", http.MethodGet, "/api/quiz/next?sessionToken=" + token + "&topicSlug=scope&phase=final", nil, http.StatusBadRequest},
		{"unknown topic", http.MethodGet, "/api/topic?sessionToken=" + token + "&slug=nope", nil, http.StatusNotFound},
		{"unknown boss rank", http.MethodPost, "/api/boss-exam/start", gin.H{"sessionToken": token, "rankSlug": "nope"}, http.StatusNotFound},
		{"boss score over exam length", http.MethodPost, "/api/boss-exam/finish", gin.H{"sessionToken": token, "rankSlug": "campfire-cadet", "passed": true, "correctCount": 11}, http.StatusBadRequest},
		{"unknown stats session", http.MethodGet, "/api/stats?sessionToken=ghost", nil, http.StatusNotFound},
		{"bad streak scope", http.MethodGet, "/api/streak?sessionToken=" + token + "&scope=boss", nil, http.StatusBadRequest},
		{"no route", http.MethodGet, "/api/nowhere", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, res := do(t, r, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, code)
			assert.False(t, res.OK)
			assert.NotEmpty(t, res.Error)
		})
	}
}

func TestRequestLogger_RouteSessionAndError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r, _ := newTestRouterWithLogger(t, zap.New(core))
	token := startSession(t, r)

	code, _ := do(t, r, http.MethodGet, "/api/topic?sessionToken="+token+"&slug=nope", nil)
	require.Equal(t, http.StatusNotFound, code)
	code, _ = do(t, r, http.MethodPost, "/api/lesson/complete", gin.H{"sessionToken": token, "topicSlug": "scope"})
	require.Equal(t, http.StatusOK, code)
	do(t, r, http.MethodGet, "/api/nowhere", nil)

	rejected := logs.FilterMessage("api call rejected").FilterField(zap.String("route", "/api/topic")).All()
	require.Len(t, rejected, 1)
	assert.Equal(t, zapcore.WarnLevel, rejected[0].Level)
	fields := rejected[0].ContextMap()
	assert.Equal(t, token, fields["session"])
	assert.Contains(t, fields["error"], "not found")

	served := logs.FilterMessage("api call").FilterField(zap.String("route", "/api/lesson/complete")).All()
	require.Len(t, served, 1)
	assert.Equal(t, zapcore.DebugLevel, served[0].Level)
	assert.Equal(t, token, served[0].ContextMap()["session"], "token read from the body")

	assert.Equal(t, 1, logs.FilterField(zap.String("route", "unmatched")).Len())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(&engine.ErrInvalidRequest{Field: "x"}))
	assert.Equal(t, http.StatusNotFound, statusFor(&engine.ErrNotFound{Kind: "topic"}))
	assert.Equal(t, http.StatusConflict, statusFor(&engine.ErrConflict{Err: errors.New("lost")}))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(&engine.ErrStorageUnavailable{Op: "ping", Err: errors.New("down")}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestNextQuestion_HidesAnswer(t *testing.T) {
	r, _ := newTestRouter(t)
	token := startSession(t, r)

	code, res := do(t, r, http.MethodGet, "/api/quiz/next?sessionToken="+token+"&topicSlug=variables-let-var", nil)
	require.Equal(t, http.StatusOK, code, res.Error)

	var q map[string]any
	require.NoError(t, json.Unmarshal(res.Data, &q))
	assert.Equal(t, "variables-let-var", q["topicSlug"])
	assert.NotContains(t, q, "answer")
}

func TestLessonJourneyAndRank(t *testing.T) {
	r, _ := newTestRouter(t)
	token := startSession(t, r)

	code, res := do(t, r, http.MethodPost, "/api/lesson/complete", gin.H{"sessionToken": token, "topicSlug": "prologue-welcome"})
	require.Equal(t, http.StatusOK, code, res.Error)
	var lesson engine.LessonResult
	require.NoError(t, json.Unmarshal(res.Data, &lesson))
	assert.True(t, lesson.Completed)
	assert.Equal(t, "prologue-browser-wars", lesson.Unlocked.NextTopicSlug)

	code, res = do(t, r, http.MethodGet, "/api/journey?sessionToken="+token, nil)
	require.Equal(t, http.StatusOK, code, res.Error)
	var journey struct {
		Books []engine.BookView `json:"books"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &journey))
	require.Len(t, journey.Books, 2)

	code, res = do(t, r, http.MethodGet, "/api/rank?sessionToken="+token, nil)
	require.Equal(t, http.StatusOK, code, res.Error)
	var rank engine.RankView
	require.NoError(t, json.Unmarshal(res.Data, &rank))
	assert.NotEmpty(t, rank.RankSlug)
}

func TestStreakHint(t *testing.T) {
	r, _ := newTestRouter(t)
	token := startSession(t, r)

	code, res := do(t, r, http.MethodGet, "/api/streak?sessionToken="+token+"&scope=micro", nil)
	require.Equal(t, http.StatusOK, code, res.Error)

	code, res = do(t, r, http.MethodPost, "/api/streak/hint", gin.H{"sessionToken": token, "scope": "micro"})
	require.Equal(t, http.StatusOK, code, res.Error)
	assert.Contains(t, string(res.Data), `"spent":false`)
}

func TestReadyAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t)
	token := startSession(t, r)

	code, res := do(t, r, http.MethodGet, "/api/readyz", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, res.OK)

	do(t, r, http.MethodPost, "/api/quiz/answer", gin.H{
		"sessionToken": token,
		"questionId":   "vars-let-block",
		"selected":     "ReferenceError",
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `jstopia_answers_total{correct="true",phase="quiz"} 1`)
	assert.Contains(t, body, `jstopia_http_requests_total{method="POST",route="/api/quiz/answer",status="200"} 1`)
	assert.True(t, strings.Contains(body, "jstopia_http_request_duration_seconds"))
}

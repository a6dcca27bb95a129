//nolint:testpackage // testing internal handler behavior
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/topicbot/internal/catalog"
	"github.com/jonesrussell/topicbot/internal/classifier"
	"github.com/jonesrussell/topicbot/internal/logger"
	"github.com/jonesrussell/topicbot/internal/telemetry"
)

type fakeClassifier struct {
	result classifier.Result
	calls  int
}

func (f *fakeClassifier) Classify(_ context.Context, _ string) classifier.Result {
	f.calls++
	return f.result
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Health(_ context.Context) error {
	return f.err
}

func scholarshipEntry() *catalog.TopicEntry {
	return &catalog.TopicEntry{
		Topic:    "Scholarship",
		Keywords: []string{"scholarship", "funding"},
		Summary:  "Financial aid for students",
		Reply:    "Apply through the portal.",
		Link:     "https://example.com/scholarship",
	}
}

func newTestRouter(cls Classifier, pinger HealthPinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	cat := catalog.New([]catalog.TopicEntry{*scholarshipEntry()})
	h := NewHandler(cls, cat, pinger, logger.NewNop())

	router.POST("/respond", h.Respond)
	router.GET("/api/v1/topics", h.ListTopics)
	router.GET("/api/v1/oracle/health", h.OracleHealth)
	return router
}

func postRespond(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/respond", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRespondMatch(t *testing.T) {
	entry := scholarshipEntry()
	cls := &fakeClassifier{result: classifier.Result{
		Entry:   entry,
		Topic:   entry.Topic,
		Matched: true,
		Outcome: classifier.OutcomeOracleMatch,
	}}
	router := newTestRouter(cls, &fakePinger{})

	w := postRespond(router, `{"user":"alice","message":"I need funding help for a scholarship"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp MatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Topic != "Scholarship" {
		t.Errorf("expected Scholarship, got %q", resp.Topic)
	}
	want := "Apply through the portal.\n" + linkMarker + "https://example.com/scholarship"
	if resp.Reply != want {
		t.Errorf("expected reply %q, got %q", want, resp.Reply)
	}
	if resp.User != "alice" {
		t.Errorf("expected user echoed, got %q", resp.User)
	}
}

func TestRespondNoMatch(t *testing.T) {
	cls := &fakeClassifier{result: classifier.Result{
		Topic:   catalog.NoMatch,
		Outcome: classifier.OutcomeOracleNone,
	}}
	router := newTestRouter(cls, &fakePinger{})

	w := postRespond(router, `{"message":"hello there"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, `"reply":"none"`) {
		t.Errorf("expected reply none, got %s", body)
	}
	if !strings.Contains(body, `"link":null`) {
		t.Errorf("expected explicit null link, got %s", body)
	}
	// Missing user falls back to the placeholder identity.
	if !strings.Contains(body, `"user":"unknown"`) {
		t.Errorf("expected default user, got %s", body)
	}
}

func TestRespondInvalidJSON(t *testing.T) {
	cls := &fakeClassifier{}
	router := newTestRouter(cls, &fakePinger{})

	w := postRespond(router, `{not json`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if cls.calls != 0 {
		t.Error("classifier should not run for malformed requests")
	}
}

func TestRespondMissingMessage(t *testing.T) {
	cls := &fakeClassifier{}
	router := newTestRouter(cls, &fakePinger{})

	for _, body := range []string{`{}`, `{"user":"alice"}`, `{"message":"   "}`} {
		w := postRespond(router, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
	}
	if cls.calls != 0 {
		t.Error("classifier should not run without a message")
	}
}

func TestListTopics(t *testing.T) {
	router := newTestRouter(&fakeClassifier{}, &fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/topics", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, `"count":1`) {
		t.Errorf("expected count 1, got %s", body)
	}
	if !strings.Contains(body, `"Scholarship"`) {
		t.Errorf("expected topic name in listing, got %s", body)
	}
	// Replies and links are internal.
	if strings.Contains(body, "Apply through the portal.") {
		t.Error("topic listing must not expose reply text")
	}
	if strings.Contains(body, "https://example.com/scholarship") {
		t.Error("topic listing must not expose links")
	}
}

func TestOracleHealthOK(t *testing.T) {
	router := newTestRouter(&fakeClassifier{}, &fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/oracle/health", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

type scriptedCompleter struct {
	answer string
}

func (s *scriptedCompleter) Complete(_ context.Context, _ string) (string, error) {
	return s.answer, nil
}

// Full pipeline through the real engine: message embeds a keyword, the
// score clears the gate, the oracle confirms, and the handler composes
// the reply with the marker line.
func TestRespondEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cat := catalog.New([]catalog.TopicEntry{{
		Topic:    "Scholarship",
		Keywords: []string{"funding", "grant"},
		Summary:  "financial aid info",
		Reply:    "Here's info",
		Link:     "http://x/scholarship",
	}})

	engine := classifier.NewEngine(cat, &scriptedCompleter{answer: "Scholarship"}, classifier.Config{
		ConfidenceThreshold: 700,
		FallbackTopic:       "Scholarship",
		MaxOracleCandidates: 4,
	}, logger.NewNop(), telemetry.NewProviderWith(prometheus.NewRegistry()))

	router := gin.New()
	h := NewHandler(engine, cat, &fakePinger{}, logger.NewNop())
	router.POST("/respond", h.Respond)

	w := postRespond(router, `{"user":"bob","message":"I need funding help for a scholarship"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp MatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Reply != "Here's info\n👉 http://x/scholarship" {
		t.Errorf("unexpected reply %q", resp.Reply)
	}
	if resp.Topic != "Scholarship" {
		t.Errorf("unexpected topic %q", resp.Topic)
	}
	if resp.User != "bob" {
		t.Errorf("unexpected user %q", resp.User)
	}
}

func TestOracleHealthUnreachable(t *testing.T) {
	router := newTestRouter(&fakeClassifier{}, &fakePinger{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/oracle/health", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unreachable") {
		t.Errorf("expected unreachable status, got %s", w.Body.String())
	}
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sandevgo/kalevalagpt/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChat struct {
	resp    core.RetrievalResponse
	err     error
	lastReq core.RetrievalRequest
}

func (s *stubChat) HandleChat(ctx context.Context, req core.RetrievalRequest) (core.RetrievalResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

func newTestServer(chat ChatHandler) (*Server, *Metrics) {
	m := NewMetrics()
	return NewServer(context.Background(), ":0", chat, m), m
}

func postChat(t *testing.T, h http.Handler, body string, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, ChatPath, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_Chat(t *testing.T) {
	ctxText := "Runo 1"
	chat := &stubChat{resp: core.RetrievalResponse{
		Answer:  "It is a Finnish epic.",
		Context: &ctxText,
		Sources: []string{"doc1"},
	}}
	s, m := newTestServer(chat)

	rec := postChat(t, s.Handler(), `{"question":"What is the Kalevala?","top_k":3,"similarity_cutoff":0.5}`, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"answer":"It is a Finnish epic.","context":"Runo 1","sources":["doc1"]}`, rec.Body.String())

	assert.Equal(t, "What is the Kalevala?", chat.lastReq.Question)
	require.NotNil(t, chat.lastReq.TopK)
	assert.Equal(t, 3, *chat.lastReq.TopK)
	require.NotNil(t, chat.lastReq.SimilarityCutoff)
	assert.Equal(t, 0.5, *chat.lastReq.SimilarityCutoff)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("200")))
}

func TestServer_Chat_OmitsAbsentFields(t *testing.T) {
	chat := &stubChat{resp: core.RetrievalResponse{Answer: "short"}}
	s, _ := newTestServer(chat)

	rec := postChat(t, s.Handler(), `{"question":"hi"}`, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"answer":"short"}`, rec.Body.String())
	assert.Nil(t, chat.lastReq.TopK)
	assert.Nil(t, chat.lastReq.SimilarityCutoff)
}

func TestServer_Chat_UpstreamFailure(t *testing.T) {
	chat := &stubChat{
		resp: core.RetrievalResponse{Answer: "Error: could not reach KalevalaGPT"},
		err:  errors.New("upstream unavailable: connection refused"),
	}
	s, m := newTestServer(chat)

	rec := postChat(t, s.Handler(), `{"question":"q","top_k":3,"similarity_cutoff":0.5}`, "application/json")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"answer":"Error: could not reach KalevalaGPT"}`, rec.Body.String())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("500")))
}

func TestServer_Chat_MalformedBody(t *testing.T) {
	chat := &stubChat{}
	s, m := newTestServer(chat)

	rec := postChat(t, s.Handler(), `{"question":`, "application/json")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"answer":"Error: invalid request"}`, rec.Body.String())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("400")))
}

func TestServer_Chat_RejectedBodies(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		wantCode    int
	}{
		{"text content type", `{"question":"hi"}`, "text/plain", http.StatusUnsupportedMediaType},
		{"missing content type", `{"question":"hi"}`, "", http.StatusUnsupportedMediaType},
		{"fractional top_k", `{"question":"hi","top_k":2.5}`, "application/json", http.StatusBadRequest},
		{"string cutoff", `{"question":"hi","similarity_cutoff":"high"}`, "application/json", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &stubChat{}
			s, m := newTestServer(chat)

			rec := postChat(t, s.Handler(), tt.body, tt.contentType)

			require.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, `{"answer":"Error: invalid request"}`, rec.Body.String())
			assert.Empty(t, chat.lastReq.Question, "upstream must not be called")
			assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues(fmt.Sprint(tt.wantCode))))
		})
	}
}

func TestServer_Chat_Panic(t *testing.T) {
	s, _ := newTestServer(panickingChat{})

	rec := postChat(t, s.Handler(), `{"question":"q"}`, "application/json")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type panickingChat struct{}

func (panickingChat) HandleChat(context.Context, core.RetrievalRequest) (core.RetrievalResponse, error) {
	panic("boom")
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(&stubChat{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, HealthPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	s, m := newTestServer(&stubChat{})
	m.ObserveUpstream(200*time.Millisecond, nil)
	m.ObserveUpstream(time.Second, errors.New("down"))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, MetricsPath, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `kalevala_upstream_duration_seconds_count{outcome="ok"} 1`)
	assert.Contains(t, string(body), `kalevala_upstream_duration_seconds_count{outcome="error"} 1`)
}

func TestServer_CORS(t *testing.T) {
	s, _ := newTestServer(&stubChat{})

	req := httptest.NewRequest(http.MethodOptions, ChatPath, nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_StartShutdown(t *testing.T) {
	s, _ := newTestServer(&stubChat{resp: core.RetrievalResponse{Answer: "pong"}})
	s.addr = "127.0.0.1:0"

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(context.Background()) }()

	require.Eventually(t, func() bool { return s.echo.ListenerAddr() != nil }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(fmt.Sprintf("http://%s%s", s.echo.ListenerAddr(), ChatPath), "application/json", strings.NewReader(`{"question":"ping"}`))
	require.NoError(t, err)
	var out core.RetrievalResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	assert.Equal(t, "pong", out.Answer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Shutdown(ctx))
	require.NoError(t, <-errCh)
}

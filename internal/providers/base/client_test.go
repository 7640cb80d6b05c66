package base

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sandevgo/kalevalagpt/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DoRequest(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, core.UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	defer c.Close()

	resp, err := c.DoRequest(context.Background(), http.MethodPost, "/query",
		map[string]string{"question": "Who forged the Sampo?"},
		map[string]string{"x-api-key": "secret"})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, map[string]string{"question": "Who forged the Sampo?"}, got)
}

func TestClient_DoRequest_NoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		assert.Empty(t, data)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	resp, err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestClient_DoRequest_Unmarshalable(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	_, err := c.DoRequest(context.Background(), http.MethodPost, "/", make(chan int), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal")
}

func TestClient_DoRequest_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second)
	_, err := c.DoRequest(context.Background(), http.MethodPost, "/", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request:")
}

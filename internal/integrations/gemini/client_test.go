package gemini

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(context.Background(), "test-key",
		WithBaseURL(srv.URL),
		WithModel("gemini-mock"),
		WithHTTPClient(&http.Client{Timeout: 2 * time.Second}),
	)
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), " ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "API key")
}

func TestClient_Complete_HappyPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-mock:generateContent"), r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Contains(t, string(body), "draw a circle")
		require.Contains(t, string(body), "application/json")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"category\":\"creation\",\"action\":\"create\"}"}]}}]}`))
	})

	out, err := c.Complete(context.Background(), "draw a circle")
	require.NoError(t, err)
	require.Equal(t, `{"category":"creation","action":"create"}`, out)
}

func TestClient_Complete_EmptyResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := c.Complete(context.Background(), "hi")
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty response")
}

func TestClient_Complete_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend exploded","status":"INTERNAL"}}`))
	})

	_, err := c.Complete(context.Background(), "hi")
	require.Error(t, err)
	require.Contains(t, err.Error(), "gemini: generate content")
}

func TestClassifyUpstream(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "Error 400, Message: API key not valid, Status: INVALID_ARGUMENT, Details: [API_KEY_INVALID]", want: "API key rejected"},
		{in: "Error 401, Message: bad creds, Status: UNAUTHENTICATED", want: "API key rejected"},
		{in: "Error 504, Message: slow, Status: DEADLINE_EXCEEDED", want: "timeout"},
		{in: "Error 500, Message: boom, Status: INTERNAL", want: "generate content"},
	}
	for _, tc := range cases {
		cause := errors.New(tc.in)
		err := classifyUpstream(cause)
		require.Contains(t, err.Error(), tc.want)
		require.ErrorIs(t, err, cause)
	}
}

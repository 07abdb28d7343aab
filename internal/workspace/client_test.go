package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:   baseURL,
		AppID:     "app-id",
		AppSecret: "app-secret",
		Color:     "#1DA1F2",
		Title:     "Results from Twitter",
	}, testLogger())
}

func TestAuthenticate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/token", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "token exchange must use basic auth")
		assert.Equal(t, "app-id", user)
		assert.Equal(t, "app-secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-123"}`))
	}))
	defer srv.Close()

	token, err := newTestClient(srv.URL).Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestAuthenticate_RejectionIsDistinguished(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Authenticate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthRejected))
}

func TestAuthenticate_EmptyTokenIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Authenticate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthRejected))
}

func TestSendMessage_PostsAnnotation(t *testing.T) {
	var gotAuth string
	var gotPayload appMessage

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok-456"}`))
	})
	mux.HandleFunc("/v1/spaces/space-1/messages", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusCreated)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	err := newTestClient(srv.URL).SendMessage(context.Background(), "space-1", "hello space")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-456", gotAuth)
	assert.Equal(t, "appMessage", gotPayload.Type)
	assert.Equal(t, 1.0, gotPayload.Version)
	require.Len(t, gotPayload.Annotations, 1)
	ann := gotPayload.Annotations[0]
	assert.Equal(t, "generic", ann.Type)
	assert.Equal(t, "#1DA1F2", ann.Color)
	assert.Equal(t, "Results from Twitter", ann.Title)
	assert.Equal(t, "hello space", ann.Text)
}

func TestSendMessage_AuthFailureSkipsPublish(t *testing.T) {
	var publishCalled bool

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/v1/spaces/", func(w http.ResponseWriter, r *http.Request) {
		publishCalled = true
		w.WriteHeader(http.StatusCreated)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	err := newTestClient(srv.URL).SendMessage(context.Background(), "space-1", "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthRejected))
	assert.False(t, publishCalled, "publish must not be attempted after auth failure")
}

func TestSendMessage_Non201IsError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok"}`))
	})
	mux.HandleFunc("/v1/spaces/space-1/messages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream sad"))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	err := newTestClient(srv.URL).SendMessage(context.Background(), "space-1", "hello")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrAuthRejected), "publish failure is not an auth failure")
	assert.Contains(t, err.Error(), "502")
}

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"taskkeeper/internal/app/client/config"
	"taskkeeper/internal/domain/task"
)

func newTestHTTPClient(t *testing.T, handler http.HandlerFunc) *httpClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	cl, err := NewHTTPClient(&config.Config{ServerAddress: u.Host}, slog.Default())
	require.NoError(t, err)

	return cl
}

func TestHTTPClient_ErrorClassification(t *testing.T) {
	ctx := context.Background()

	t.Run("non-2xx status is a network error", func(t *testing.T) {
		cl := newTestHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, _, err := cl.PullChanges(ctx, 0)
		assert.ErrorIs(t, err, ErrNetwork)

		_, err = cl.PushChanges(ctx, []task.Task{{ID: "a", UpdatedAt: 1}})
		assert.ErrorIs(t, err, ErrNetwork)

		assert.ErrorIs(t, cl.HealthCheck(ctx), ErrNetwork)
	})

	t.Run("unreachable server is a network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		u, err := url.Parse(server.URL)
		require.NoError(t, err)
		cl, err := NewHTTPClient(&config.Config{ServerAddress: u.Host}, slog.Default())
		require.NoError(t, err)

		_, _, err = cl.PullChanges(ctx, 0)
		assert.ErrorIs(t, err, ErrNetwork)
	})

	t.Run("malformed body is a protocol error", func(t *testing.T) {
		cl := newTestHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("{not json"))
		})

		_, _, err := cl.PullChanges(ctx, 0)
		assert.ErrorIs(t, err, ErrProtocol)

		_, err = cl.PushChanges(ctx, []task.Task{{ID: "a", UpdatedAt: 1}})
		assert.ErrorIs(t, err, ErrProtocol)
	})

	t.Run("rejected batch is a protocol error", func(t *testing.T) {
		cl := newTestHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"error","error":"batch too large"}`))
		})

		_, err := cl.PushChanges(ctx, []task.Task{{ID: "a", UpdatedAt: 1}})
		assert.ErrorIs(t, err, ErrProtocol)
		assert.ErrorContains(t, err, "batch too large")
	})
}

func TestHTTPClient_PullNoContent(t *testing.T) {
	cl := newTestHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tasks, noNewData, err := cl.PullChanges(context.Background(), 500)
	require.NoError(t, err)
	assert.True(t, noNewData)
	assert.Nil(t, tasks)
}

func TestHTTPClient_PullOmitsZeroCursor(t *testing.T) {
	var query url.Values
	cl := newTestHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	})

	_, _, err := cl.PullChanges(context.Background(), 0)
	require.NoError(t, err)
	assert.False(t, query.Has("since"), "first pull must request the full set")

	_, _, err = cl.PullChanges(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "42", query.Get("since"))
}

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/rustplug/internal/errors"
)

func TestHTTPFetcher_FetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rustplug/test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("#!/bin/sh\necho rustup-init\n"))
	}))
	defer srv.Close()

	got, err := NewHTTPFetcher("rustplug/test").FetchText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho rustup-init\n", got)
}

func TestHTTPFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher("").FetchText(context.Background(), srv.URL)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "404 Not Found")
}

func TestHTTPFetcher_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher("").FetchText(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestHTTPFetcher_BadURL(t *testing.T) {
	f := &HTTPFetcher{}
	_, err := f.FetchText(context.Background(), "://nope")
	assert.Error(t, err)
}

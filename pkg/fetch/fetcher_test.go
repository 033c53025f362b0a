package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAndCache(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	client, err := New(4, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	data, err := client.Fetch(context.Background(), srv.URL+"/bg.png")
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))

	// Second fetch of the same URL hits the cache, not the server.
	_, err = client.Fetch(context.Background(), srv.URL+"/bg.png")
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits.Load())
	assert.Equal(t, 1, client.CacheLen())
}

func TestFetchSizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer srv.Close()

	client, err := New(4, WithHTTPClient(srv.Client()), WithMaxBytes(1024))
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
	assert.Zero(t, client.CacheLen(), "oversized body must not be cached")
}

func TestFetchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client, err := New(4, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetchBadURL(t *testing.T) {
	client, err := New(4)
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "http://127.0.0.1:0/nope")
	assert.Error(t, err)
}

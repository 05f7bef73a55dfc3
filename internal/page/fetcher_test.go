package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte("<html><title>Hi</title><body>hello</body></html>"))
	}))
	defer srv.Close()

	fetcher := NewFetcher(5 * time.Second)
	page, err := fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/", page.URL)
	assert.Contains(t, page.HTML, "hello")
}

func TestHTTPFetcher_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>done</html>"))
	})
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusMovedPermanently)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fetcher := NewFetcher(5 * time.Second)
	page, err := fetcher.Fetch(context.Background(), srv.URL+"/start")
	require.NoError(t, err)

	// The resolved URL reflects the redirect target.
	assert.Equal(t, srv.URL+"/final", page.URL)
}

func TestHTTPFetcher_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	fetcher := NewFetcher(5 * time.Second)
	page, err := fetcher.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Nil(t, page)
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPFetcher_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	fetcher := NewFetcher(time.Second)
	page, err := fetcher.Fetch(context.Background(), url)
	require.Error(t, err)
	assert.Nil(t, page)
}

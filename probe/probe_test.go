package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReachable(t *testing.T) {
	var gotMethod, gotUA, gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		switch r.URL.Path {
		case "/ok.png":
			w.WriteHeader(http.StatusOK)
		case "/moved.png":
			w.WriteHeader(http.StatusNotModified)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := New()

	assert.True(t, c.Reachable(context.Background(), server.URL+"/ok.png"))
	assert.Equal(t, http.MethodHead, gotMethod)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, server.URL+"/", gotReferer)

	assert.False(t, c.Reachable(context.Background(), server.URL+"/missing.png"))
	assert.False(t, c.Reachable(context.Background(), server.URL+"/moved.png"))
}

func TestReachableCustomUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	c := New(WithUserAgent("probe-test"))
	assert.True(t, c.Reachable(context.Background(), server.URL))
	assert.Equal(t, "probe-test", gotUA)
}

func TestReachableNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	assert.False(t, New().Reachable(context.Background(), addr+"/gone.png"))
}

func TestReachableTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	c := New(WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	assert.False(t, c.Reachable(context.Background(), server.URL+"/slow.png"))
}

func TestReachableRejectsNonHTTP(t *testing.T) {
	c := New()
	for _, u := range []string{"", "images/a.png", "ftp://example.com/a.png", "data:image/png;base64,AAAA"} {
		assert.False(t, c.Reachable(context.Background(), u), u)
	}
}

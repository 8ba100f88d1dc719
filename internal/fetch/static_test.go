package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStaticFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html><body><div id="reserve" data-value="577"></div></body></html>`))
	}))
	defer srv.Close()

	f := NewStatic(5*time.Second, discardLogger())
	doc, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, gotUA, "Mozilla/5.0")
	val, ok := doc.Find("div#reserve").Attr("data-value")
	require.True(t, ok)
	assert.Equal(t, "577", val)
}

func TestStaticFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bot detected", http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewStatic(5*time.Second, discardLogger())
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "bot detected")
}

func TestStaticFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewStatic(5*time.Second, discardLogger())
	_, err := f.Fetch(ctx, srv.URL)
	assert.Error(t, err)
}

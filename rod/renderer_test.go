//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/causelist"
	"github.com/fwojciec/causelist/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Renderer implements causelist.Renderer.
var _ causelist.Renderer = (*rod.Renderer)(nil)

func TestRenderer_Render_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	renderer, err := rod.NewRenderer(rod.WithRenderDelay(0))
	require.NoError(t, err)
	defer renderer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err = renderer.Render(ctx, srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderer_Render_ReturnsScriptInsertedLinks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "SESSION", Value: "s1", Path: "/"})
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html><body>
<div id="list">Loading...</div>
<script>
document.getElementById('list').innerHTML = '<a href="court1.pdf">Court 1</a>';
</script>
</body></html>`))
	}))
	defer srv.Close()

	renderer, err := rod.NewRenderer(rod.WithRenderDelay(100 * time.Millisecond))
	require.NoError(t, err)
	defer renderer.Close()

	snap, err := renderer.Render(context.Background(), srv.URL+"/list/")

	require.NoError(t, err)
	assert.Contains(t, snap.HTML, `href="court1.pdf"`)
	assert.NotContains(t, snap.HTML, "Loading...")
	assert.Equal(t, srv.URL+"/list/", snap.URL)
	require.NotEmpty(t, snap.Cookies)
	assert.Equal(t, "SESSION", snap.Cookies[0].Name)
}

func TestRenderer_Render_CallsWaitBeforeCapture(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>ready</body></html>`))
	}))
	defer srv.Close()

	waited := false
	renderer, err := rod.NewRenderer(rod.WithWait(func(ctx context.Context) error {
		waited = true
		return nil
	}))
	require.NoError(t, err)
	defer renderer.Close()

	_, err = renderer.Render(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.True(t, waited)
}

package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock is an adjustable clock for the token cache.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTokenServer(t *testing.T, exchanges *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "client-id", user)
		atomic.AddInt64(exchanges, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-abc","token_type":"Bearer","expires_in":3600}`))
	}))
}

func TestTokenNotConfigured(t *testing.T) {
	ts := NewTokenSource("", "")
	_, err := ts.Token(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestTokenCaching(t *testing.T) {
	var exchanges int64
	srv := newTokenServer(t, &exchanges)
	defer srv.Close()

	clock := &fakeClock{t: time.Now()}
	ts := NewTokenSourceWithOptions("client-id", "client-secret", srv.URL, srv.Client(), clock.now)

	tok, err := ts.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-abc", tok)
	require.EqualValues(t, 1, exchanges)

	// Second call well inside the expiry window reuses the cached slot.
	clock.t = clock.t.Add(30 * time.Minute)
	_, err = ts.Token(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, exchanges)

	// Within the 60s buffer before expiry a fresh exchange happens.
	clock.t = clock.t.Add(30*time.Minute - 30*time.Second)
	_, err = ts.Token(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, exchanges)
}

func TestTokenInvalidate(t *testing.T) {
	var exchanges int64
	srv := newTokenServer(t, &exchanges)
	defer srv.Close()

	ts := NewTokenSourceWithOptions("client-id", "client-secret", srv.URL, srv.Client(), time.Now)
	_, err := ts.Token(context.Background())
	require.NoError(t, err)

	ts.Invalidate()
	_, err = ts.Token(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, exchanges)
}

const trackSearchBody = `{"tracks":{"items":[
	{"id":"1","name":"No Preview","artists":[{"name":"A"}],"album":{"name":"X","images":[{"url":"big"},{"url":"mid"}]},"preview_url":null,"duration_ms":1000,"external_urls":{"spotify":"u1"},"popularity":80},
	{"id":"2","name":"Has Preview","artists":[{"name":"B"},{"name":"C"}],"album":{"name":"Y","images":[{"url":"only"}]},"preview_url":"p2","duration_ms":2000,"external_urls":{"spotify":"u2"},"popularity":70},
	{"id":"3","name":"Also Preview","artists":[{"name":"D"}],"album":{"name":"Z","images":[]},"preview_url":"p3","duration_ms":3000,"external_urls":{"spotify":"u3"},"popularity":60}
]}}`

func newSearchStack(t *testing.T, searchHandler http.HandlerFunc) *Client {
	t.Helper()
	var exchanges int64
	tokenSrv := newTokenServer(t, &exchanges)
	t.Cleanup(tokenSrv.Close)
	searchSrv := httptest.NewServer(searchHandler)
	t.Cleanup(searchSrv.Close)

	ts := NewTokenSourceWithOptions("client-id", "client-secret", tokenSrv.URL, tokenSrv.Client(), time.Now)
	return NewClientWithOptions(ts, searchSrv.URL, searchSrv.Client())
}

func TestSearchTracksSortsPreviewsFirst(t *testing.T) {
	c := newSearchStack(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		require.Equal(t, "track", r.URL.Query().Get("type"))
		require.Equal(t, "6", r.URL.Query().Get("limit"))
		require.Equal(t, "IN", r.URL.Query().Get("market"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(trackSearchBody))
	})

	tracks, err := c.SearchTracks(context.Background(), "anything")
	require.NoError(t, err)
	require.Len(t, tracks, 3)

	// Previewable tracks first, relative order preserved.
	require.Equal(t, "2", tracks[0].ID)
	require.Equal(t, "3", tracks[1].ID)
	require.Equal(t, "1", tracks[2].ID)

	// Mid-size album image preferred, single image used as fallback.
	require.Equal(t, "mid", tracks[2].AlbumArt)
	require.Equal(t, "only", tracks[0].AlbumArt)
	require.Equal(t, []string{"B", "C"}, tracks[0].Artists)
}

func TestSearchTracksUpstreamError(t *testing.T) {
	c := newSearchStack(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.SearchTracks(context.Background(), "anything")
	require.ErrorIs(t, err, ErrUpstream)
}

func TestSearchPlaylists(t *testing.T) {
	c := newSearchStack(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "playlist", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"playlists":{"items":[{"id":"pl1","name":"Mix","owner":{"display_name":"spotify"},"images":[{"url":"img"}],"external_urls":{"spotify":"pu"},"tracks":{"total":42}}]}}`))
	})

	playlists, err := c.SearchPlaylists(context.Background(), "mix")
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	require.Equal(t, "Mix", playlists[0].Name)
	require.Equal(t, 42, playlists[0].Tracks)
}

// Package spotify provides client-credentials access to the Spotify Web API:
// a cached bearer token source and a track/playlist search client. The token
// source is the single authority for token acquisition; every route that
// talks to Spotify goes through it.
package spotify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrNotConfigured is returned when the Spotify client credentials are unset.
var ErrNotConfigured = errors.New("Spotify credentials not configured")

const (
	defaultTokenURL = "https://accounts.spotify.com/api/token"

	// expiryBuffer forces a refresh slightly before the token expires so an
	// in-flight search never presents a token that dies mid-request.
	expiryBuffer = 60 * time.Second
)

// TokenSource exchanges client credentials for bearer tokens and caches the
// result in a single slot until shortly before expiry. The clock is injected
// so the refresh window is testable.
type TokenSource struct {
	mu     sync.Mutex
	config *clientcredentials.Config
	client *http.Client
	now    func() time.Time

	cachedToken string
	expiry      time.Time
}

// NewTokenSource creates a token source for the given credentials. Empty
// credentials yield a source whose Token method always returns
// ErrNotConfigured.
func NewTokenSource(clientID, clientSecret string) *TokenSource {
	return NewTokenSourceWithOptions(clientID, clientSecret, defaultTokenURL, http.DefaultClient, time.Now)
}

// NewTokenSourceWithOptions creates a token source with an explicit token
// endpoint, HTTP client and clock.
func NewTokenSourceWithOptions(clientID, clientSecret, tokenURL string, client *http.Client, now func() time.Time) *TokenSource {
	var config *clientcredentials.Config
	if clientID != "" && clientSecret != "" {
		config = &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
	}
	return &TokenSource{
		config: config,
		client: client,
		now:    now,
	}
}

// Token returns a valid bearer token, reusing the cached one while
// now < expiry - 60s and performing a fresh exchange otherwise.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	if ts.config == nil {
		return "", ErrNotConfigured
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.cachedToken != "" && ts.now().Before(ts.expiry.Add(-expiryBuffer)) {
		return ts.cachedToken, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, ts.client)
	token, err := ts.config.Token(ctx)
	if err != nil {
		return "", errors.Wrap(err, "spotify token exchange failed")
	}

	ts.cachedToken = token.AccessToken
	ts.expiry = token.Expiry
	return ts.cachedToken, nil
}

// Invalidate drops the cached token, forcing a refresh on next use.
func (ts *TokenSource) Invalidate() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.cachedToken = ""
	ts.expiry = time.Time{}
}

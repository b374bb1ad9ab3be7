package v1

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	accessCookieName  = "tessa-access-token"
	refreshCookieName = "tessa-refresh-token"
	sessionCookieName = "tessa-session"

	accessCookieMaxAge  = 7 * 24 * time.Hour
	refreshCookieMaxAge = 30 * 24 * time.Hour
)

// handleAuthCallback exchanges an OAuth code for tokens at the identity
// provider, sets HTTP-only cookies, and redirects home. Failures also
// redirect home: the UI falls back to the signed-out state.
func (s *APIV1Service) handleAuthCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" || s.Profile.AuthBaseURL == "" {
		return c.Redirect(http.StatusFound, "/")
	}

	body, err := json.Marshal(map[string]string{"auth_code": code})
	if err != nil {
		return c.Redirect(http.StatusFound, "/")
	}
	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodPost,
		s.Profile.AuthBaseURL+"/auth/v1/token?grant_type=authorization_code", bytes.NewReader(body))
	if err != nil {
		return c.Redirect(http.StatusFound, "/")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.Profile.AuthAnonKey)

	resp, err := s.AuthHTTPClient.Do(req)
	if err != nil {
		slog.Error("auth code exchange failed", "error", err)
		return c.Redirect(http.StatusFound, "/")
	}
	defer resp.Body.Close()

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil || tokens.AccessToken == "" {
		slog.Warn("auth code exchange returned no token", "status", resp.StatusCode)
		return c.Redirect(http.StatusFound, "/")
	}

	secure := s.Profile.Mode == "prod"
	c.SetCookie(sessionCookie(accessCookieName, tokens.AccessToken, accessCookieMaxAge, secure))
	c.SetCookie(sessionCookie(refreshCookieName, tokens.RefreshToken, refreshCookieMaxAge, secure))

	if signed, err := s.mintSessionToken(); err != nil {
		slog.Error("failed to mint session token", "error", err)
	} else {
		c.SetCookie(sessionCookie(sessionCookieName, signed, accessCookieMaxAge, secure))
	}

	return c.Redirect(http.StatusFound, "/")
}

// mintSessionToken signs a short session JWT with the instance secret.
func (s *APIV1Service) mintSessionToken() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    "tessa",
		Subject:   "session",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(accessCookieMaxAge)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.Secret))
}

func sessionCookie(name, value string, maxAge time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

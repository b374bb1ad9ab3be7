package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tessa-labs/tessa/plugin/spotify"
)

func (s *APIV1Service) handleSpotifyToken(c echo.Context) error {
	token, err := s.SpotifyTokens.Token(c.Request().Context())
	if err != nil {
		if errors.Is(err, spotify.ErrNotConfigured) {
			return errorJSON(c, http.StatusInternalServerError, "Spotify credentials not configured")
		}
		slog.Error("spotify token exchange failed", "error", err)
		return errorJSON(c, http.StatusUnauthorized, "Failed to get Spotify token")
	}
	return c.JSON(http.StatusOK, map[string]string{"access_token": token})
}

func (s *APIV1Service) handleSpotifySearch(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":  "Missing search query",
			"tracks": []spotify.Track{},
		})
	}

	if c.QueryParam("type") == "playlist" {
		playlists, err := s.SpotifyClient.SearchPlaylists(ctx, query)
		if err != nil {
			return spotifySearchError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"playlists": playlists,
			"total":     len(playlists),
		})
	}

	tracks, err := s.SpotifyClient.SearchTracks(ctx, query)
	if err != nil {
		return spotifySearchError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"tracks": tracks,
		"total":  len(tracks),
	})
}

func spotifySearchError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, spotify.ErrNotConfigured):
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"error":  "Spotify credentials not configured",
			"tracks": []spotify.Track{},
		})
	case errors.Is(err, spotify.ErrUpstream):
		return c.JSON(http.StatusBadGateway, map[string]any{
			"error":  "Spotify search failed",
			"tracks": []spotify.Track{},
		})
	default:
		slog.Error("spotify search failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"error":  "Spotify search failed",
			"tracks": []spotify.Track{},
		})
	}
}

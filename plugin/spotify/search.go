package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

const (
	defaultAPIBaseURL = "https://api.spotify.com/v1"

	searchLimit  = 6
	searchMarket = "IN"
)

// ErrUpstream is returned when the Spotify search endpoint rejects a request.
var ErrUpstream = errors.New("Spotify search failed")

// Track is the normalized projection of a Spotify track search result.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	AlbumArt   string   `json:"albumArt"`
	PreviewURL string   `json:"previewUrl"`
	DurationMs int      `json:"durationMs"`
	SpotifyURL string   `json:"spotifyUrl"`
	Popularity int      `json:"popularity"`
}

// Playlist is the normalized projection of a playlist search result.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Owner      string `json:"owner"`
	Image      string `json:"image"`
	SpotifyURL string `json:"spotifyUrl"`
	Tracks     int    `json:"tracks"`
}

// Client searches the Spotify catalog using the shared token source.
type Client struct {
	tokens     *TokenSource
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a search client on top of the given token source.
func NewClient(tokens *TokenSource) *Client {
	return &Client{tokens: tokens, httpClient: http.DefaultClient, baseURL: defaultAPIBaseURL}
}

// NewClientWithOptions creates a search client with an explicit API base URL
// and HTTP client.
func NewClientWithOptions(tokens *TokenSource, baseURL string, httpClient *http.Client) *Client {
	return &Client{tokens: tokens, httpClient: httpClient, baseURL: baseURL}
}

func (c *Client) search(ctx context.Context, query, typ string) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", typ)
	params.Set("limit", strconv.Itoa(searchLimit))
	params.Set("market", searchMarket)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, ErrUpstream
	}
	return resp, nil
}

// SearchTracks returns normalized tracks, with previewable tracks sorted
// ahead of those without a preview. The sort is stable so ties keep the
// provider's relevance order.
func (c *Client) SearchTracks(ctx context.Context, query string) ([]Track, error) {
	resp, err := c.search(ctx, query, "track")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed struct {
		Tracks struct {
			Items []struct {
				ID      string `json:"id"`
				Name    string `json:"name"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
				Album struct {
					Name   string `json:"name"`
					Images []struct {
						URL string `json:"url"`
					} `json:"images"`
				} `json:"album"`
				PreviewURL   string `json:"preview_url"`
				DurationMs   int    `json:"duration_ms"`
				ExternalURLs struct {
					Spotify string `json:"spotify"`
				} `json:"external_urls"`
				Popularity int `json:"popularity"`
			} `json:"items"`
		} `json:"tracks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "failed to decode spotify response")
	}

	tracks := make([]Track, 0, len(parsed.Tracks.Items))
	for _, item := range parsed.Tracks.Items {
		artists := make([]string, 0, len(item.Artists))
		for _, a := range item.Artists {
			artists = append(artists, a.Name)
		}
		// Prefer the mid-size album image, matching the player UI.
		albumArt := ""
		if len(item.Album.Images) > 1 {
			albumArt = item.Album.Images[1].URL
		} else if len(item.Album.Images) > 0 {
			albumArt = item.Album.Images[0].URL
		}
		tracks = append(tracks, Track{
			ID:         item.ID,
			Name:       item.Name,
			Artists:    artists,
			Album:      item.Album.Name,
			AlbumArt:   albumArt,
			PreviewURL: item.PreviewURL,
			DurationMs: item.DurationMs,
			SpotifyURL: item.ExternalURLs.Spotify,
			Popularity: item.Popularity,
		})
	}

	sort.SliceStable(tracks, func(i, j int) bool {
		return tracks[i].PreviewURL != "" && tracks[j].PreviewURL == ""
	})

	return tracks, nil
}

// SearchPlaylists returns normalized playlists for the query.
func (c *Client) SearchPlaylists(ctx context.Context, query string) ([]Playlist, error) {
	resp, err := c.search(ctx, query, "playlist")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed struct {
		Playlists struct {
			Items []struct {
				ID    string `json:"id"`
				Name  string `json:"name"`
				Owner struct {
					DisplayName string `json:"display_name"`
				} `json:"owner"`
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
				ExternalURLs struct {
					Spotify string `json:"spotify"`
				} `json:"external_urls"`
				Tracks struct {
					Total int `json:"total"`
				} `json:"tracks"`
			} `json:"items"`
		} `json:"playlists"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "failed to decode spotify response")
	}

	playlists := make([]Playlist, 0, len(parsed.Playlists.Items))
	for _, item := range parsed.Playlists.Items {
		image := ""
		if len(item.Images) > 0 {
			image = item.Images[0].URL
		}
		playlists = append(playlists, Playlist{
			ID:         item.ID,
			Name:       item.Name,
			Owner:      item.Owner.DisplayName,
			Image:      image,
			SpotifyURL: item.ExternalURLs.Spotify,
			Tracks:     item.Tracks.Total,
		})
	}
	return playlists, nil
}

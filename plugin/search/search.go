// Package search wraps the Tavily and Serper web search providers and a
// best-effort page scraper used to enrich chat prompts with live content.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// Result is one normalized search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// ErrNoProvider is returned when no search API key is configured.
var ErrNoProvider = errors.New("no search API configured")

const (
	tavilyEndpoint = "https://api.tavily.com/search"
	serperEndpoint = "https://google.serper.dev/search"

	maxResults     = 5
	scrapeTimeout  = 10 * time.Second
	scrapeMaxChars = 5000
	userAgent      = "Mozilla/5.0 (compatible; TessaBot/1.0)"
)

// Config holds provider credentials. Either key may be empty; Tavily is
// preferred when both are set.
type Config struct {
	TavilyAPIKey string
	SerperAPIKey string
}

// Service performs web searches and page scrapes.
type Service struct {
	config Config
	client *http.Client
}

// NewService creates a search service.
func NewService(config Config) *Service {
	return &Service{
		config: config,
		client: &http.Client{Timeout: scrapeTimeout},
	}
}

// NewServiceWithClient creates a search service with a custom HTTP client.
func NewServiceWithClient(config Config, client *http.Client) *Service {
	return &Service{config: config, client: client}
}

// Search queries the first configured provider, falling back to the second
// when the first fails.
func (s *Service) Search(ctx context.Context, query string) ([]Result, error) {
	if s.config.TavilyAPIKey == "" && s.config.SerperAPIKey == "" {
		return nil, ErrNoProvider
	}

	var lastErr error
	if s.config.TavilyAPIKey != "" {
		results, err := s.searchTavily(ctx, query)
		if err == nil {
			return results, nil
		}
		lastErr = err
	}
	if s.config.SerperAPIKey != "" {
		results, err := s.searchSerper(ctx, query)
		if err == nil {
			return results, nil
		}
		lastErr = err
	}
	return nil, errors.Wrap(lastErr, "search failed")
}

func (s *Service) searchTavily(ctx context.Context, query string) ([]Result, error) {
	payload := map[string]any{
		"api_key":      s.config.TavilyAPIKey,
		"query":        query,
		"search_depth": "basic",
		"max_results":  maxResults,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("tavily returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, Result{Title: r.Title, URL: r.URL, Snippet: r.Content})
	}
	return results, nil
}

func (s *Service) searchSerper(ctx context.Context, query string) ([]Result, error) {
	body, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.config.SerperAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("serper returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	results := []Result{}
	for i, r := range parsed.Organic {
		if i == maxResults {
			break
		}
		results = append(results, Result{Title: r.Title, URL: r.Link, Snippet: r.Snippet})
	}
	return results, nil
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// Scrape fetches a page and returns its readable text, capped at 5000 chars.
// Failures return an empty string: scraping is strictly best-effort.
func (s *Service) Scrape(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	doc.Find("script, style, nav, header, footer, aside").Remove()
	content := doc.Find("article, main, .content, .post").Text()
	if content == "" {
		content = doc.Find("body").Text()
	}

	content = strings.TrimSpace(whitespacePattern.ReplaceAllString(content, " "))
	if len(content) > scrapeMaxChars {
		content = content[:scrapeMaxChars]
	}
	return content
}

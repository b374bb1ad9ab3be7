package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/tessa-labs/tessa/internal/version"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where tessa stores its own data
	DSN string
	// Driver is the database driver (sqlite only for now)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the public url of the instance, used for OAuth redirects
	InstanceURL string
	// SessionSecret signs the session JWT issued by the auth callback
	SessionSecret string

	// LLM configuration
	LLMAPIKey  string // TESSA_LLM_API_KEY
	LLMBaseURL string // TESSA_LLM_BASE_URL (default: https://api.groq.com/openai/v1)
	LLMModel   string // TESSA_LLM_MODEL (default: llama-3.3-70b-versatile)

	// Web search configuration. Absence degrades search to an error response.
	TavilyAPIKey string // TESSA_TAVILY_API_KEY
	SerperAPIKey string // TESSA_SERPER_API_KEY

	// Spotify client-credentials configuration
	SpotifyClientID     string // TESSA_SPOTIFY_CLIENT_ID
	SpotifyClientSecret string // TESSA_SPOTIFY_CLIENT_SECRET

	// Upstream auth (Supabase-compatible) used by the OAuth callback
	AuthBaseURL string // TESSA_AUTH_BASE_URL
	AuthAnonKey string // TESSA_AUTH_ANON_KEY
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsLLMEnabled returns true if a completion API key is configured.
func (p *Profile) IsLLMEnabled() bool {
	return p.LLMAPIKey != ""
}

// IsSearchEnabled returns true if at least one search provider is configured.
func (p *Profile) IsSearchEnabled() bool {
	return p.TavilyAPIKey != "" || p.SerperAPIKey != ""
}

// IsSpotifyEnabled returns true if the Spotify client credentials are configured.
func (p *Profile) IsSpotifyEnabled() bool {
	return p.SpotifyClientID != "" && p.SpotifyClientSecret != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from TESSA_* environment variables.
func (p *Profile) FromEnv() {
	p.LLMAPIKey = os.Getenv("TESSA_LLM_API_KEY")
	p.LLMBaseURL = getEnvOrDefault("TESSA_LLM_BASE_URL", "https://api.groq.com/openai/v1")
	p.LLMModel = getEnvOrDefault("TESSA_LLM_MODEL", "llama-3.3-70b-versatile")

	p.TavilyAPIKey = os.Getenv("TESSA_TAVILY_API_KEY")
	p.SerperAPIKey = os.Getenv("TESSA_SERPER_API_KEY")

	p.SpotifyClientID = os.Getenv("TESSA_SPOTIFY_CLIENT_ID")
	p.SpotifyClientSecret = os.Getenv("TESSA_SPOTIFY_CLIENT_SECRET")

	p.AuthBaseURL = os.Getenv("TESSA_AUTH_BASE_URL")
	p.AuthAnonKey = os.Getenv("TESSA_AUTH_ANON_KEY")

	p.SessionSecret = getEnvOrDefault("TESSA_SESSION_SECRET", p.SessionSecret)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "tessa")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/tessa"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("tessa_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Version == "" {
		p.Version = version.GetCurrentVersion(p.Mode)
	}

	return nil
}

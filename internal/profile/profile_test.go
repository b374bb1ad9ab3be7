package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "bogus", Data: dir}
	err := p.Validate()
	require.NoError(t, err)
	require.Equal(t, "demo", p.Mode)
	require.Equal(t, "sqlite", p.Driver)
	require.Equal(t, filepath.Join(dir, "tessa_demo.db"), p.DSN)
	require.NotEmpty(t, p.Version)
}

func TestFeatureFlags(t *testing.T) {
	p := &Profile{}
	require.False(t, p.IsLLMEnabled())
	require.False(t, p.IsSearchEnabled())
	require.False(t, p.IsSpotifyEnabled())

	p.LLMAPIKey = "k"
	p.SerperAPIKey = "s"
	p.SpotifyClientID = "id"
	require.True(t, p.IsLLMEnabled())
	require.True(t, p.IsSearchEnabled())
	// Secret still missing.
	require.False(t, p.IsSpotifyEnabled())

	p.SpotifyClientSecret = "secret"
	require.True(t, p.IsSpotifyEnabled())
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("TESSA_LLM_API_KEY", "gsk_test")
	t.Setenv("TESSA_LLM_BASE_URL", "")
	p := &Profile{}
	p.FromEnv()
	require.Equal(t, "gsk_test", p.LLMAPIKey)
	require.Equal(t, "https://api.groq.com/openai/v1", p.LLMBaseURL)
	require.Equal(t, "llama-3.3-70b-versatile", p.LLMModel)
}

// Package v1 is the JSON API surface: chat orchestration, memories,
// wellness, food, music, Spotify, exams, deadlines, and the auth callback.
package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tessa-labs/tessa/internal/profile"
	"github.com/tessa-labs/tessa/plugin/mood"
	"github.com/tessa-labs/tessa/plugin/prompt"
	"github.com/tessa-labs/tessa/plugin/search"
	"github.com/tessa-labs/tessa/plugin/spotify"
	"github.com/tessa-labs/tessa/server/ai"
	apierrors "github.com/tessa-labs/tessa/server/internal/errors"
	memorysvc "github.com/tessa-labs/tessa/server/service/memory"
	wellnesssvc "github.com/tessa-labs/tessa/server/service/wellness"
	"github.com/tessa-labs/tessa/store"
)

// Completer is the completion surface the chat handlers need. Satisfied by
// *ai.Provider; tests substitute a fake.
type Completer interface {
	Complete(ctx context.Context, messages []ai.Message, temperature float32, maxTokens int) (*ai.Completion, error)
}

type APIV1Service struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	Provider        Completer // nil when no completion key is configured
	MemoryService   *memorysvc.Service
	WellnessService *wellnesssvc.Service
	SearchService   *search.Service // nil when no search provider is configured
	SpotifyTokens   *spotify.TokenSource
	SpotifyClient   *spotify.Client
	AuthHTTPClient  *http.Client

	moodClassifier *mood.Classifier
	promptBuilder  *prompt.Builder
}

func NewAPIV1Service(secret string, profile *profile.Profile, st *store.Store) *APIV1Service {
	service := &APIV1Service{
		Secret:          secret,
		Profile:         profile,
		Store:           st,
		MemoryService:   memorysvc.NewService(st),
		WellnessService: wellnesssvc.NewService(st),
		moodClassifier:  mood.NewClassifier(),
		promptBuilder:   prompt.NewBuilder(),
		AuthHTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}

	if profile.IsLLMEnabled() {
		provider, err := ai.NewProvider(&ai.Config{
			BaseURL: profile.LLMBaseURL,
			APIKey:  profile.LLMAPIKey,
			Model:   profile.LLMModel,
		})
		if err == nil {
			service.Provider = provider
		}
	}
	if profile.IsSearchEnabled() {
		service.SearchService = search.NewService(search.Config{
			TavilyAPIKey: profile.TavilyAPIKey,
			SerperAPIKey: profile.SerperAPIKey,
		})
	}
	// One token source shared by the token route and search route.
	service.SpotifyTokens = spotify.NewTokenSource(profile.SpotifyClientID, profile.SpotifyClientSecret)
	service.SpotifyClient = spotify.NewClient(service.SpotifyTokens)

	return service
}

// RegisterRoutes mounts all handlers on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", s.handleHealthz)
	e.GET("/auth/callback", s.handleAuthCallback)

	api := e.Group("/api")
	api.POST("/chat", s.handleChat)
	api.POST("/flashcards", s.handleFlashcards)

	api.GET("/spotify/token", s.handleSpotifyToken)
	api.GET("/spotify/search", s.handleSpotifySearch)

	api.GET("/memories", s.listMemories)
	api.POST("/memories", s.createMemory)
	api.DELETE("/memories", s.clearMemories)
	api.DELETE("/memories/:uid", s.deleteMemory)

	api.GET("/wellness", s.getWellness)
	api.GET("/wellness/prompt", s.getWellnessPrompt)
	api.POST("/wellness/meal", s.markMeal)
	api.POST("/wellness/water", s.addWater)
	api.POST("/wellness/study", s.markStudy)
	api.POST("/wellness/calories", s.addCalories)
	api.POST("/wellness/goal", s.setWaterGoal)

	api.POST("/food/estimate", s.estimateFood)
	api.GET("/food/suggest", s.suggestFood)

	api.POST("/music/command", s.parseMusicCommand)

	api.GET("/exams", s.listExams)
	api.POST("/exams", s.createExam)
	api.PATCH("/exams/:uid", s.updateExam)
	api.DELETE("/exams/:uid", s.deleteExam)

	api.GET("/deadlines", s.listDeadlines)
	api.POST("/deadlines", s.createDeadline)
	api.PATCH("/deadlines/:uid", s.updateDeadline)
	api.DELETE("/deadlines/:uid", s.deleteDeadline)
}

func (s *APIV1Service) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.Profile.Version,
	})
}

// errorJSON is the uniform error payload.
func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// statusFor maps a typed service error to an HTTP status.
func statusFor(err error) int {
	switch apierrors.CodeOf(err) {
	case apierrors.ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case apierrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apierrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case apierrors.ErrCodeUpstreamFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

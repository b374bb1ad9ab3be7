package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/tessa-labs/tessa/internal/profile"
	"github.com/tessa-labs/tessa/server/ai"
	"github.com/tessa-labs/tessa/store"
	"github.com/tessa-labs/tessa/store/db"
)

// fakeCompleter records the last call and replies with a canned completion.
type fakeCompleter struct {
	reply string
	err   error

	lastMessages    []ai.Message
	lastTemperature float32
	lastMaxTokens   int
}

func (f *fakeCompleter) Complete(_ context.Context, messages []ai.Message, temperature float32, maxTokens int) (*ai.Completion, error) {
	f.lastMessages = messages
	f.lastTemperature = temperature
	f.lastMaxTokens = maxTokens
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Completion{
		Content: f.reply,
		Usage:   ai.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
	}, nil
}

func newTestService(t *testing.T) (*APIV1Service, *echo.Echo) {
	t.Helper()
	p := &profile.Profile{
		Mode:    "dev",
		Driver:  "sqlite",
		DSN:     t.TempDir() + "/tessa_test.db",
		Version: "0.0.0-test",
	}
	driver, err := db.NewDBDriver(p)
	require.NoError(t, err)
	st := store.New(driver, p)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })

	service := NewAPIV1Service("test-secret", p, st)
	e := echo.New()
	service.RegisterRoutes(e)
	return service, e
}

func perform(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	_, e := newTestService(t)
	rec := perform(e, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "0.0.0-test", body["version"])
}

func TestChatRejectsEmptyMessages(t *testing.T) {
	_, e := newTestService(t)
	rec := perform(e, http.MethodPost, "/api/chat", `{"messages":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Valid messages array required", decodeBody(t, rec)["error"])
}

func TestChatWithoutProvider(t *testing.T) {
	_, e := newTestService(t)
	rec := perform(e, http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "AI service not configured", decodeBody(t, rec)["error"])
}

func TestChatHappyPath(t *testing.T) {
	service, e := newTestService(t)
	fake := &fakeCompleter{reply: "hey, of course I can help!"}
	service.Provider = fake

	rec := perform(e, http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"can you help me plan my day?"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "hey, of course I can help!", body["content"])
	require.NotEmpty(t, body["mood"])
	require.Equal(t, false, body["searchPerformed"])

	usage, ok := body["usage"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(30), usage["totalTokens"])

	// System prompt is prepended, user turn follows.
	require.GreaterOrEqual(t, len(fake.lastMessages), 2)
	require.Equal(t, "system", fake.lastMessages[0].Role)
	require.Contains(t, fake.lastMessages[0].Content, "Tessa")
	require.Equal(t, "can you help me plan my day?", fake.lastMessages[len(fake.lastMessages)-1].Content)

	require.Equal(t, defaultMaxTokens, fake.lastMaxTokens)
	require.GreaterOrEqual(t, fake.lastTemperature, float32(temperatureFloor))
	require.LessOrEqual(t, fake.lastTemperature, float32(temperatureFloor+temperatureJitter))
}

func TestChatMultiPartContent(t *testing.T) {
	service, e := newTestService(t)
	fake := &fakeCompleter{reply: "got it"}
	service.Provider = fake

	rec := perform(e, http.MethodPost, "/api/chat",
		`{"messages":[{"role":"user","content":[{"type":"text","text":"first part"},{"type":"text","text":"second part"}]}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	last := fake.lastMessages[len(fake.lastMessages)-1]
	require.Equal(t, "first part\nsecond part", last.Content)
}

func TestChatClampsMaxTokens(t *testing.T) {
	service, e := newTestService(t)
	fake := &fakeCompleter{reply: "ok"}
	service.Provider = fake

	rec := perform(e, http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"hi"}],"maxTokens":99999}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, maxTokensCeiling, fake.lastMaxTokens)
}

func TestChatTruncatesHistory(t *testing.T) {
	service, e := newTestService(t)
	fake := &fakeCompleter{reply: "ok"}
	service.Provider = fake

	var turns []string
	for i := 0; i < 30; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		turns = append(turns, `{"role":"`+role+`","content":"turn"}`)
	}
	rec := perform(e, http.MethodPost, "/api/chat", `{"messages":[`+strings.Join(turns, ",")+`]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	// System prompt plus the trailing window of the conversation.
	require.Len(t, fake.lastMessages, historyLimit+1)
}

func TestChatErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"rate limit", errors.New("upstream returned 429 rate_limit_exceeded"), http.StatusTooManyRequests},
		{"context length", errors.New("maximum context length exceeded"), http.StatusBadRequest},
		{"auth", errors.New("invalid api key provided"), http.StatusInternalServerError},
		{"generic", errors.New("connection reset by peer"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, e := newTestService(t)
			service.Provider = &fakeCompleter{err: tc.err}
			rec := perform(e, http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
			require.Equal(t, tc.wantStatus, rec.Code)
			require.NotEmpty(t, decodeBody(t, rec)["error"])
		})
	}
}

func TestChatEmptyCompletion(t *testing.T) {
	service, e := newTestService(t)
	service.Provider = &fakeCompleter{reply: "   "}
	rec := perform(e, http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Empty response from AI", decodeBody(t, rec)["error"])
}

func TestChatExtractsMemories(t *testing.T) {
	service, e := newTestService(t)
	service.Provider = &fakeCompleter{reply: "you got this!"}

	rec := perform(e, http.MethodPost, "/api/chat",
		`{"messages":[{"role":"user","content":"I want to finish my chemistry notes today"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	memories, err := service.MemoryService.List(context.Background())
	require.NoError(t, err)
	require.Len(t, memories, 1)
	require.Equal(t, "goal", memories[0].Category)
}

func TestLatestUserText(t *testing.T) {
	messages := []chatMessage{
		{Role: "user", Content: json.RawMessage(`"first question"`)},
		{Role: "assistant", Content: json.RawMessage(`"an answer"`)},
		{Role: "user", Content: json.RawMessage(`"second question"`)},
	}
	require.Equal(t, "second question", latestUserText(messages))

	require.Equal(t, "Hello", latestUserText([]chatMessage{
		{Role: "user", Content: json.RawMessage(`""`)},
	}))
	require.Equal(t, "Hello", latestUserText(nil))
}

func TestWellnessRoutes(t *testing.T) {
	_, e := newTestService(t)

	rec := perform(e, http.MethodGet, "/api/wellness", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, float64(8), body["waterGoal"])
	require.Equal(t, false, body["lunch"])

	rec = perform(e, http.MethodPost, "/api/wellness/meal", `{"meal":"lunch"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["lunch"])

	rec = perform(e, http.MethodPost, "/api/wellness/meal", `{"meal":"brunch"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Default glass count is one.
	rec = perform(e, http.MethodPost, "/api/wellness/water", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), decodeBody(t, rec)["water"])

	rec = perform(e, http.MethodPost, "/api/wellness/water", `{"glasses":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(4), decodeBody(t, rec)["water"])

	rec = perform(e, http.MethodPost, "/api/wellness/study", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["study"])

	rec = perform(e, http.MethodPost, "/api/wellness/calories", `{"calories":350}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(350), decodeBody(t, rec)["calories"])

	rec = perform(e, http.MethodPost, "/api/wellness/calories", `{"calories":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(e, http.MethodPost, "/api/wellness/goal", `{"goal":10}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(10), decodeBody(t, rec)["waterGoal"])

	rec = perform(e, http.MethodPost, "/api/wellness/goal", `{"goal":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWellnessPromptRoute(t *testing.T) {
	_, e := newTestService(t)
	rec := perform(e, http.MethodGet, "/api/wellness/prompt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Contains(t, []any{"meal", "water", "none"}, body["type"])
}

func TestFoodRoutes(t *testing.T) {
	_, e := newTestService(t)

	rec := perform(e, http.MethodPost, "/api/food/estimate", `{"food":"maggi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Greater(t, body["calories"], float64(0))

	rec = perform(e, http.MethodPost, "/api/food/estimate", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(e, http.MethodGet, "/api/food/suggest?q=ma", "")
	require.Equal(t, http.StatusOK, rec.Code)
	suggestions, ok := decodeBody(t, rec)["suggestions"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, suggestions)
}

func TestMusicCommandRoute(t *testing.T) {
	_, e := newTestService(t)

	rec := perform(e, http.MethodPost, "/api/music/command", `{"message":"play something sad"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	cmd, ok := body["command"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "play", cmd["type"])
	require.NotEmpty(t, body["acknowledgement"])

	rec = perform(e, http.MethodPost, "/api/music/command", `{"message":"how was your day?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, decodeBody(t, rec)["command"])

	rec = perform(e, http.MethodPost, "/api/music/command", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMemoryRoutes(t *testing.T) {
	_, e := newTestService(t)

	rec := perform(e, http.MethodPost, "/api/memories", `{"fact":"User loves filter coffee","category":"preference"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody(t, rec)
	uid, ok := created["uid"].(string)
	require.True(t, ok)
	require.NotEmpty(t, uid)

	// Same fact again is reported as a duplicate, not stored twice.
	rec = perform(e, http.MethodPost, "/api/memories", `{"fact":"user loves FILTER coffee"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["duplicate"])

	rec = perform(e, http.MethodPost, "/api/memories", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(e, http.MethodGet, "/api/memories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), decodeBody(t, rec)["total"])

	rec = perform(e, http.MethodDelete, "/api/memories/"+uid, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = perform(e, http.MethodGet, "/api/memories", "")
	require.Equal(t, float64(0), decodeBody(t, rec)["total"])
}

func TestExamRoutes(t *testing.T) {
	_, e := newTestService(t)

	rec := perform(e, http.MethodPost, "/api/exams", `{"subject":"Physics","date":"2026-02-20"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody(t, rec)
	uid := created["uid"].(string)
	require.Equal(t, "Physics", created["subject"])
	require.Equal(t, false, created["completed"])

	rec = perform(e, http.MethodPost, "/api/exams", `{"subject":"Maths","date":"20-02-2026"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(e, http.MethodPatch, "/api/exams/"+uid, `{"completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["completed"])

	rec = perform(e, http.MethodPatch, "/api/exams/no-such-exam", `{"completed":true}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = perform(e, http.MethodDelete, "/api/exams/"+uid, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = perform(e, http.MethodGet, "/api/exams", "")
	require.Empty(t, decodeBody(t, rec)["exams"])
}

func TestDeadlineRoutes(t *testing.T) {
	_, e := newTestService(t)

	rec := perform(e, http.MethodPost, "/api/deadlines", `{"name":"Scholarship form","deadline":"2026-09-15"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody(t, rec)
	uid := created["uid"].(string)
	require.Equal(t, "pending", created["status"])

	rec = perform(e, http.MethodPatch, "/api/deadlines/"+uid, `{"status":"someday"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(e, http.MethodPatch, "/api/deadlines/"+uid, `{"status":"done"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "done", decodeBody(t, rec)["status"])

	rec = perform(e, http.MethodGet, "/api/deadlines?status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeBody(t, rec)["deadlines"])

	rec = perform(e, http.MethodDelete, "/api/deadlines/"+uid, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestFlashcardsRoute(t *testing.T) {
	service, e := newTestService(t)
	service.Provider = &fakeCompleter{reply: "```json\n[{\"front\":\"What is H2O?\",\"back\":\"Water\"}]\n```"}

	rec := perform(e, http.MethodPost, "/api/flashcards", `{"topic":"chemistry basics","count":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, float64(1), body["total"])
	cards := body["cards"].([]any)
	card := cards[0].(map[string]any)
	require.Equal(t, "What is H2O?", card["front"])

	rec = perform(e, http.MethodPost, "/api/flashcards", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	service.Provider = &fakeCompleter{reply: "sorry, I can't do JSON today"}
	rec = perform(e, http.MethodPost, "/api/flashcards", `{"topic":"chemistry"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSpotifyRoutesWithoutCredentials(t *testing.T) {
	_, e := newTestService(t)

	rec := perform(e, http.MethodGet, "/api/spotify/token", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Spotify credentials not configured", decodeBody(t, rec)["error"])

	rec = perform(e, http.MethodGet, "/api/spotify/search", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "Missing search query", body["error"])
	require.Empty(t, body["tracks"])

	rec = perform(e, http.MethodGet, "/api/spotify/search?q=lofi", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthCallbackWithoutCode(t *testing.T) {
	_, e := newTestService(t)
	rec := perform(e, http.MethodGet, "/auth/callback", "")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	require.Empty(t, rec.Result().Cookies())
}

func TestAuthCallbackSetsCookies(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "anon-key", r.Header.Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-abc","refresh_token":"refresh-def"}`))
	}))
	defer upstream.Close()

	service, e := newTestService(t)
	service.Profile.AuthBaseURL = upstream.URL
	service.Profile.AuthAnonKey = "anon-key"

	rec := perform(e, http.MethodGet, "/auth/callback?code=oauth-code", "")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	cookies := map[string]*http.Cookie{}
	for _, ck := range rec.Result().Cookies() {
		cookies[ck.Name] = ck
	}
	require.Contains(t, cookies, accessCookieName)
	require.Contains(t, cookies, refreshCookieName)
	require.Contains(t, cookies, sessionCookieName)
	require.Equal(t, "access-abc", cookies[accessCookieName].Value)
	require.True(t, cookies[accessCookieName].HttpOnly)
	require.False(t, cookies[accessCookieName].Secure)
	require.NotEmpty(t, cookies[sessionCookieName].Value)
}

package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	foodplugin "github.com/tessa-labs/tessa/plugin/food"
	"github.com/tessa-labs/tessa/plugin/mood"
	"github.com/tessa-labs/tessa/plugin/prompt"
	"github.com/tessa-labs/tessa/server/ai"
	wellnesssvc "github.com/tessa-labs/tessa/server/service/wellness"
	"github.com/tessa-labs/tessa/store"
)

const (
	// historyLimit truncates the conversation sent upstream.
	historyLimit = 20

	maxTokensCeiling  = 1400
	defaultMaxTokens  = 1024
	temperatureFloor  = 0.85
	temperatureJitter = 0.25

	// scrapeBudget bounds scraped page text appended to the search block.
	scrapeBudget = 3000
)

type chatMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type chatRequest struct {
	Messages      []chatMessage `json:"messages"`
	IsCreatorMode bool          `json:"isCreatorMode"`
	CurrentMood   string        `json:"currentMood"`
	NeedsSearch   bool          `json:"needsSearch"`
	MaxTokens     int           `json:"maxTokens"`
	Language      string        `json:"language"`
}

type chatResponse struct {
	Content         string   `json:"content"`
	Mood            string   `json:"mood"`
	Usage           ai.Usage `json:"usage"`
	SearchPerformed bool     `json:"searchPerformed"`
	SourcesUsed     []string `json:"sourcesUsed"`
}

// contentText flattens a message content field. The wire shape is either a
// plain string or a multi-part array of {type, text} objects.
func contentText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}
	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parts); err == nil {
		var texts []string
		for _, p := range parts {
			if p.Text != "" {
				texts = append(texts, p.Text)
			}
		}
		return strings.Join(texts, "\n")
	}
	return ""
}

// latestUserText finds the newest user turn's text, falling back to "Hello"
// so downstream stages always have something to work with.
func latestUserText(messages []chatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != "user" {
			continue
		}
		if text := strings.TrimSpace(contentText(messages[i].Content)); text != "" {
			return text
		}
	}
	return "Hello"
}

func (s *APIV1Service) handleChat(c echo.Context) error {
	ctx := c.Request().Context()

	var req chatRequest
	if err := c.Bind(&req); err != nil || len(req.Messages) == 0 {
		return errorJSON(c, http.StatusBadRequest, "Valid messages array required")
	}
	if s.Provider == nil {
		return errorJSON(c, http.StatusInternalServerError, "AI service not configured")
	}

	userText := latestUserText(req.Messages)

	searchBlock, sourcesUsed, searchPerformed := s.searchContext(ctx, req.NeedsSearch, userText)

	systemPrompt := s.buildSystemPrompt(ctx, req.IsCreatorMode, userText, req.Language)

	history := make([]ai.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		history = append(history, ai.Message{Role: m.Role, Content: contentText(m.Content)})
	}
	if searchBlock != "" {
		history[len(history)-1].Content += searchBlock
	}
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	messages := append([]ai.Message{{Role: "system", Content: systemPrompt}}, history...)

	temperature := temperatureFloor + rand.Float32()*temperatureJitter
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if maxTokens > maxTokensCeiling {
		maxTokens = maxTokensCeiling
	}

	completion, err := s.Provider.Complete(ctx, messages, temperature, maxTokens)
	if err != nil {
		kind := ai.Classify(err)
		slog.Error("completion failed", "kind", kind, "error", err)
		return errorJSON(c, kind.HTTPStatus(), kind.UserMessage())
	}
	if strings.TrimSpace(completion.Content) == "" {
		return errorJSON(c, http.StatusInternalServerError, "Empty response from AI")
	}

	newMood := s.reconcileMood(userText, completion.Content, req.CurrentMood, req.IsCreatorMode)

	resp := chatResponse{
		Content:         completion.Content,
		Mood:            string(newMood),
		Usage:           completion.Usage,
		SearchPerformed: searchPerformed,
		SourcesUsed:     sourcesUsed,
	}
	if err := c.JSON(http.StatusOK, resp); err != nil {
		return err
	}

	// Side channels run after the reply is written; their failures only log.
	s.runSideChannels(userText, completion.Content)
	return nil
}

// searchContext builds the live-web block appended to the last user turn.
// Search failure degrades to an inline note; scrape failure is silent.
func (s *APIV1Service) searchContext(ctx context.Context, needsSearch bool, userText string) (block string, sources []string, performed bool) {
	if !needsSearch {
		return "", nil, false
	}
	if s.SearchService == nil {
		return "\n\n(web search failed: not configured)", nil, false
	}

	results, err := s.SearchService.Search(ctx, userText)
	if err != nil || len(results) == 0 {
		slog.Warn("web search failed", "error", err)
		return "\n\n(web search failed)", nil, false
	}

	var sb strings.Builder
	sb.WriteString("\n\nLIVE WEB INFORMATION (use this to answer; cite naturally):\n")
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("[%d] %s\n%s\nSource: %s\n\n", i+1, r.Title, r.Snippet, r.URL))
		sources = append(sources, r.URL)
	}
	if scraped := s.SearchService.Scrape(ctx, results[0].URL); scraped != "" {
		if len(scraped) > scrapeBudget {
			scraped = scraped[:scrapeBudget]
		}
		sb.WriteString("PAGE CONTENT FROM TOP RESULT:\n" + scraped + "\n")
	}
	return sb.String(), sources, true
}

// buildSystemPrompt assembles persona + dashboard + remembered facts. Any
// failure degrades to the minimal prompt.
func (s *APIV1Service) buildSystemPrompt(ctx context.Context, creatorMode bool, userText, language string) string {
	dash, err := s.buildDashboard(ctx)
	if err != nil {
		slog.Warn("failed to build dashboard context", "error", err)
		dash = nil
	}

	built := s.promptBuilder.Build(creatorMode, userText, language, dash)
	if built == "" {
		return prompt.Minimal()
	}

	if memoryContext, err := s.MemoryService.BuildContext(ctx); err != nil {
		slog.Warn("failed to build memory context", "error", err)
	} else if memoryContext != "" {
		built += "\n\n" + memoryContext
	}
	return built
}

func (s *APIV1Service) buildDashboard(ctx context.Context) (*prompt.Dashboard, error) {
	var (
		w         *store.Wellness
		exams     []*store.Exam
		deadlines []*store.Deadline
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		w, err = s.WellnessService.GetDaily(gctx)
		return err
	})
	g.Go(func() (err error) {
		exams, err = s.Store.ListExams(gctx, &store.FindExam{})
		return err
	})
	g.Go(func() (err error) {
		pending := store.DeadlineStatusPending
		deadlines, err = s.Store.ListDeadlines(gctx, &store.FindDeadline{Status: &pending})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mealsLogged := 0
	for _, eaten := range []bool{w.Breakfast, w.Lunch, w.Snacks, w.Dinner} {
		if eaten {
			mealsLogged++
		}
	}
	dash := &prompt.Dashboard{
		Today:       time.Now(),
		Calories:    w.Calories,
		SleepHours:  w.SleepHours,
		MealsLogged: mealsLogged,
	}
	for _, e := range exams {
		dash.Exams = append(dash.Exams, prompt.Exam{Subject: e.Subject, Date: e.Date, Completed: e.Completed})
	}
	for _, d := range deadlines {
		dash.Deadlines = append(dash.Deadlines, prompt.DeadlineItem{Name: d.Name, Deadline: d.Deadline})
	}
	return dash, nil
}

// reconcileMood runs both classifier passes. A classifier panic is logged
// and leaves the mood unchanged.
func (s *APIV1Service) reconcileMood(userText, responseText, currentMood string, creator bool) (result mood.Mood) {
	previous := mood.Parse(currentMood)
	result = previous
	defer func() {
		if r := recover(); r != nil {
			slog.Error("mood classification panicked", "recovered", r)
			result = previous
		}
	}()

	fromUser := s.moodClassifier.DetectFromText(userText, previous, creator)
	fromResponse := s.moodClassifier.DetectFromResponse(responseText, userText, creator)
	return mood.Reconcile(previous, fromUser, fromResponse)
}

// runSideChannels extracts memories and wellness signals from the finished
// turn. Best effort; uses a fresh context since the request is already
// answered.
func (s *APIV1Service) runSideChannels(userText, responseText string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := s.MemoryService.ExtractAndSave(ctx, userText, responseText); err != nil {
		slog.Warn("memory extraction failed", "error", err)
	}

	if food, ok := wellnesssvc.DetectMeal(userText); ok {
		est := foodplugin.Estimate(food)
		if _, err := s.WellnessService.AddCalories(ctx, est.Calories); err != nil {
			slog.Warn("failed to record calories", "error", err)
		}
	}
	if hours, ok := wellnesssvc.DetectSleep(userText); ok {
		if _, err := s.WellnessService.SetSleepHours(ctx, hours); err != nil {
			slog.Warn("failed to record sleep", "error", err)
		}
	}
}

package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tessa-labs/tessa/server/ai"
)

const flashcardMaxTokens = 1200

type flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// handleFlashcards asks the model for a strict JSON array of cards, strips
// any markdown fences it added anyway, and validates the parse.
func (s *APIV1Service) handleFlashcards(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Topic string `json:"topic"`
		Notes string `json:"notes"`
		Count int    `json:"count"`
	}
	if err := c.Bind(&req); err != nil || (strings.TrimSpace(req.Topic) == "" && strings.TrimSpace(req.Notes) == "") {
		return errorJSON(c, http.StatusBadRequest, "Enter a topic or paste some notes")
	}
	if s.Provider == nil {
		return errorJSON(c, http.StatusInternalServerError, "AI service not configured")
	}
	if req.Count < 1 || req.Count > 30 {
		req.Count = 10
	}

	var promptText string
	if strings.TrimSpace(req.Notes) != "" {
		promptText = fmt.Sprintf("Generate exactly %d flashcards from these notes:\n\n%s\n\nReturn ONLY a JSON array, no markdown:\n[{\"front\":\"question\",\"back\":\"answer\"}]", req.Count, req.Notes)
	} else {
		promptText = fmt.Sprintf("Generate exactly %d flashcards about %q suitable for a JEE/NEET level student.\nReturn ONLY a JSON array, no markdown:\n[{\"front\":\"question\",\"back\":\"answer\"}]", req.Count, req.Topic)
	}

	completion, err := s.Provider.Complete(ctx, []ai.Message{{Role: "user", Content: promptText}}, 0.7, flashcardMaxTokens)
	if err != nil {
		kind := ai.Classify(err)
		return errorJSON(c, kind.HTTPStatus(), kind.UserMessage())
	}

	clean := strings.TrimSpace(completion.Content)
	clean = strings.ReplaceAll(clean, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var cards []flashcard
	if err := json.Unmarshal([]byte(clean), &cards); err != nil || len(cards) == 0 {
		return errorJSON(c, http.StatusInternalServerError, "Could not generate cards — try again or simplify the topic")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"cards": cards,
		"total": len(cards),
	})
}

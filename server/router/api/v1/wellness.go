package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	wellnesssvc "github.com/tessa-labs/tessa/server/service/wellness"
	"github.com/tessa-labs/tessa/store"
)

type wellnessPayload struct {
	Date      string  `json:"date"`
	Breakfast bool    `json:"breakfast"`
	Lunch     bool    `json:"lunch"`
	Snacks    bool    `json:"snacks"`
	Dinner    bool    `json:"dinner"`
	Water     int     `json:"water"`
	WaterGoal int     `json:"waterGoal"`
	Study     bool    `json:"study"`
	Calories  int     `json:"calories"`
	Sleep     float64 `json:"sleepHours"`
}

func toWellnessPayload(w *store.Wellness) wellnessPayload {
	return wellnessPayload{
		Date:      w.Date,
		Breakfast: w.Breakfast,
		Lunch:     w.Lunch,
		Snacks:    w.Snacks,
		Dinner:    w.Dinner,
		Water:     w.Water,
		WaterGoal: w.WaterGoal,
		Study:     w.Study,
		Calories:  w.Calories,
		Sleep:     w.SleepHours,
	}
}

func (s *APIV1Service) getWellness(c echo.Context) error {
	w, err := s.WellnessService.GetDaily(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to load wellness")
	}
	return c.JSON(http.StatusOK, toWellnessPayload(w))
}

// getWellnessPrompt returns at most one proactive prompt: a pending meal
// question first, otherwise a water nudge, otherwise nothing.
func (s *APIV1Service) getWellnessPrompt(c echo.Context) error {
	ctx := c.Request().Context()

	win, question, err := s.WellnessService.ShouldAskAboutMeal(ctx)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to evaluate prompts")
	}
	if win != nil {
		return c.JSON(http.StatusOK, map[string]any{
			"type":     "meal",
			"meal":     win.Name,
			"question": question,
		})
	}

	nudge, err := s.WellnessService.ShouldAskAboutWater(ctx)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to evaluate prompts")
	}
	if nudge != "" {
		return c.JSON(http.StatusOK, map[string]any{
			"type":     "water",
			"question": nudge,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"type": "none"})
}

func (s *APIV1Service) markMeal(c echo.Context) error {
	var req struct {
		Meal string `json:"meal"`
	}
	if err := c.Bind(&req); err != nil || req.Meal == "" {
		return errorJSON(c, http.StatusBadRequest, "Meal type is required")
	}
	w, err := s.WellnessService.MarkMeal(c.Request().Context(), wellnesssvc.MealType(req.Meal))
	if err != nil {
		if statusFor(err) == http.StatusBadRequest {
			return errorJSON(c, http.StatusBadRequest, "Unknown meal type")
		}
		return errorJSON(c, http.StatusInternalServerError, "Failed to mark meal")
	}
	return c.JSON(http.StatusOK, toWellnessPayload(w))
}

func (s *APIV1Service) addWater(c echo.Context) error {
	var req struct {
		Glasses *int `json:"glasses"`
	}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid body")
	}
	glasses := 1
	if req.Glasses != nil {
		glasses = *req.Glasses
	}
	w, err := s.WellnessService.AddWater(c.Request().Context(), glasses)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to add water")
	}
	return c.JSON(http.StatusOK, toWellnessPayload(w))
}

func (s *APIV1Service) markStudy(c echo.Context) error {
	w, err := s.WellnessService.MarkStudy(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to mark study")
	}
	return c.JSON(http.StatusOK, toWellnessPayload(w))
}

func (s *APIV1Service) addCalories(c echo.Context) error {
	var req struct {
		Calories int `json:"calories"`
	}
	if err := c.Bind(&req); err != nil || req.Calories <= 0 {
		return errorJSON(c, http.StatusBadRequest, "Calories must be positive")
	}
	w, err := s.WellnessService.AddCalories(c.Request().Context(), req.Calories)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to add calories")
	}
	return c.JSON(http.StatusOK, toWellnessPayload(w))
}

func (s *APIV1Service) setWaterGoal(c echo.Context) error {
	var req struct {
		Goal int `json:"goal"`
	}
	if err := c.Bind(&req); err != nil || req.Goal < 1 {
		return errorJSON(c, http.StatusBadRequest, "Goal must be positive")
	}
	w, err := s.WellnessService.SetWaterGoal(c.Request().Context(), req.Goal)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to set goal")
	}
	return c.JSON(http.StatusOK, toWellnessPayload(w))
}

package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	foodplugin "github.com/tessa-labs/tessa/plugin/food"
)

func (s *APIV1Service) estimateFood(c echo.Context) error {
	var req struct {
		Food string `json:"food"`
	}
	if err := c.Bind(&req); err != nil || req.Food == "" {
		return errorJSON(c, http.StatusBadRequest, "Food description is required")
	}
	return c.JSON(http.StatusOK, foodplugin.Estimate(req.Food))
}

func (s *APIV1Service) suggestFood(c echo.Context) error {
	suggestions := foodplugin.Suggestions(c.QueryParam("q"))
	if suggestions == nil {
		suggestions = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"suggestions": suggestions})
}

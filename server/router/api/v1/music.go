package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tessa-labs/tessa/plugin/music"
)

func (s *APIV1Service) parseMusicCommand(c echo.Context) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil || req.Message == "" {
		return errorJSON(c, http.StatusBadRequest, "Message is required")
	}

	cmd := music.Parse(req.Message)
	if cmd == nil {
		return c.JSON(http.StatusOK, map[string]any{"command": nil})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"command":         cmd,
		"acknowledgement": music.Acknowledgement(cmd),
	})
}

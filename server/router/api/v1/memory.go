package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	memoryplugin "github.com/tessa-labs/tessa/plugin/memory"
)

type memoryPayload struct {
	UID       string `json:"uid"`
	Fact      string `json:"fact"`
	Category  string `json:"category"`
	Source    string `json:"source,omitempty"`
	CreatedTs int64  `json:"createdTs"`
}

func (s *APIV1Service) listMemories(c echo.Context) error {
	memories, err := s.MemoryService.List(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to list memories")
	}
	payload := make([]memoryPayload, 0, len(memories))
	for _, m := range memories {
		payload = append(payload, memoryPayload{
			UID:       m.UID,
			Fact:      m.Fact,
			Category:  m.Category,
			Source:    m.Source,
			CreatedTs: m.CreatedTs,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"memories": payload,
		"total":    len(payload),
	})
}

func (s *APIV1Service) createMemory(c echo.Context) error {
	var req struct {
		Fact     string `json:"fact"`
		Category string `json:"category"`
		Source   string `json:"source"`
	}
	if err := c.Bind(&req); err != nil || req.Fact == "" {
		return errorJSON(c, http.StatusBadRequest, "Fact is required")
	}
	if req.Category == "" {
		req.Category = string(memoryplugin.CategoryPersonal)
	}

	created, err := s.MemoryService.Remember(c.Request().Context(), req.Fact, memoryplugin.Category(req.Category), req.Source)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to save memory")
	}
	if created == nil {
		// Duplicate fact: nothing new stored.
		return c.JSON(http.StatusOK, map[string]any{"duplicate": true})
	}
	return c.JSON(http.StatusOK, memoryPayload{
		UID:       created.UID,
		Fact:      created.Fact,
		Category:  created.Category,
		Source:    created.Source,
		CreatedTs: created.CreatedTs,
	})
}

func (s *APIV1Service) deleteMemory(c echo.Context) error {
	if err := s.MemoryService.Delete(c.Request().Context(), c.Param("uid")); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to delete memory")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *APIV1Service) clearMemories(c echo.Context) error {
	if err := s.MemoryService.Clear(c.Request().Context()); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to clear memories")
	}
	return c.NoContent(http.StatusNoContent)
}

package v1

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/tessa-labs/tessa/store"
)

type deadlinePayload struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Deadline string `json:"deadline"`
	Status   string `json:"status"`
}

func toDeadlinePayload(d *store.Deadline) deadlinePayload {
	return deadlinePayload{UID: d.UID, Name: d.Name, Deadline: d.Deadline, Status: string(d.Status)}
}

func (s *APIV1Service) listDeadlines(c echo.Context) error {
	find := &store.FindDeadline{}
	if status := c.QueryParam("status"); status != "" {
		deadlineStatus := store.DeadlineStatus(status)
		find.Status = &deadlineStatus
	}
	deadlines, err := s.Store.ListDeadlines(c.Request().Context(), find)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to list deadlines")
	}
	payload := make([]deadlinePayload, 0, len(deadlines))
	for _, d := range deadlines {
		payload = append(payload, toDeadlinePayload(d))
	}
	return c.JSON(http.StatusOK, map[string]any{"deadlines": payload})
}

func (s *APIV1Service) createDeadline(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Deadline string `json:"deadline"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" || !isoDatePattern.MatchString(req.Deadline) {
		return errorJSON(c, http.StatusBadRequest, "Name and deadline (YYYY-MM-DD) are required")
	}

	deadline, err := s.Store.CreateDeadline(c.Request().Context(), &store.Deadline{
		UID:      shortuuid.New(),
		Name:     req.Name,
		Deadline: req.Deadline,
	})
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to create deadline")
	}
	return c.JSON(http.StatusOK, toDeadlinePayload(deadline))
}

func (s *APIV1Service) updateDeadline(c echo.Context) error {
	var req struct {
		Name     *string `json:"name"`
		Deadline *string `json:"deadline"`
		Status   *string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid body")
	}
	update := &store.UpdateDeadline{
		UID:      c.Param("uid"),
		Name:     req.Name,
		Deadline: req.Deadline,
	}
	if req.Status != nil {
		status := store.DeadlineStatus(*req.Status)
		if status != store.DeadlineStatusPending && status != store.DeadlineStatusDone {
			return errorJSON(c, http.StatusBadRequest, "Status must be pending or done")
		}
		update.Status = &status
	}

	deadline, err := s.Store.UpdateDeadline(c.Request().Context(), update)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errorJSON(c, http.StatusNotFound, "Deadline not found")
		}
		return errorJSON(c, http.StatusInternalServerError, "Failed to update deadline")
	}
	return c.JSON(http.StatusOK, toDeadlinePayload(deadline))
}

func (s *APIV1Service) deleteDeadline(c echo.Context) error {
	if err := s.Store.DeleteDeadline(c.Request().Context(), &store.DeleteDeadline{UID: c.Param("uid")}); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to delete deadline")
	}
	return c.NoContent(http.StatusNoContent)
}

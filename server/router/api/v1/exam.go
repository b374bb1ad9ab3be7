package v1

import (
	"database/sql"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/tessa-labs/tessa/store"
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type examPayload struct {
	UID       string `json:"uid"`
	Subject   string `json:"subject"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

func toExamPayload(e *store.Exam) examPayload {
	return examPayload{UID: e.UID, Subject: e.Subject, Date: e.Date, Completed: e.Completed}
}

func (s *APIV1Service) listExams(c echo.Context) error {
	exams, err := s.Store.ListExams(c.Request().Context(), &store.FindExam{})
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to list exams")
	}
	payload := make([]examPayload, 0, len(exams))
	for _, e := range exams {
		payload = append(payload, toExamPayload(e))
	}
	return c.JSON(http.StatusOK, map[string]any{"exams": payload})
}

func (s *APIV1Service) createExam(c echo.Context) error {
	var req struct {
		Subject string `json:"subject"`
		Date    string `json:"date"`
	}
	if err := c.Bind(&req); err != nil || req.Subject == "" || !isoDatePattern.MatchString(req.Date) {
		return errorJSON(c, http.StatusBadRequest, "Subject and date (YYYY-MM-DD) are required")
	}

	exam, err := s.Store.CreateExam(c.Request().Context(), &store.Exam{
		UID:     shortuuid.New(),
		Subject: req.Subject,
		Date:    req.Date,
	})
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to create exam")
	}
	return c.JSON(http.StatusOK, toExamPayload(exam))
}

func (s *APIV1Service) updateExam(c echo.Context) error {
	var req struct {
		Subject   *string `json:"subject"`
		Date      *string `json:"date"`
		Completed *bool   `json:"completed"`
	}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid body")
	}
	if req.Date != nil && !isoDatePattern.MatchString(*req.Date) {
		return errorJSON(c, http.StatusBadRequest, "Date must be YYYY-MM-DD")
	}

	exam, err := s.Store.UpdateExam(c.Request().Context(), &store.UpdateExam{
		UID:       c.Param("uid"),
		Subject:   req.Subject,
		Date:      req.Date,
		Completed: req.Completed,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errorJSON(c, http.StatusNotFound, "Exam not found")
		}
		return errorJSON(c, http.StatusInternalServerError, "Failed to update exam")
	}
	return c.JSON(http.StatusOK, toExamPayload(exam))
}

func (s *APIV1Service) deleteExam(c echo.Context) error {
	if err := s.Store.DeleteExam(c.Request().Context(), &store.DeleteExam{UID: c.Param("uid")}); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to delete exam")
	}
	return c.NoContent(http.StatusNoContent)
}

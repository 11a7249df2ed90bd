package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusevents/internal/reports"
)

func (h *Handler) eventPopularity(c *gin.Context) {
	rows, err := h.reports.EventPopularity(c.Request.Context(), c.Query("college_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) topActiveStudents(c *gin.Context) {
	res, err := h.reports.StudentParticipation(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) flexibleReport(c *gin.Context) {
	filter := reports.FlexibleFilter{
		EventType: c.Query("event_type"),
		CollegeID: c.Query("college_id"),
		DateFrom:  parseDate(c.Query("date_from")),
		DateTo:    parseDate(c.Query("date_to")),
	}
	rows, err := h.reports.Flexible(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) registrationsPerEvent(c *gin.Context) {
	rows, err := h.reports.RegistrationsPerEvent(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) attendancePercentage(c *gin.Context) {
	rows, err := h.reports.AttendancePercentage(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) averageFeedback(c *gin.Context) {
	rows, err := h.reports.AverageFeedback(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// parseDate accepts RFC3339 or a bare date; nil on anything else.
func parseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t
	}
	return nil
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/apperr"
	"campusevents/internal/attendance"
	"campusevents/internal/auth"
	"campusevents/internal/metrics"
)

type markRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	// Status accepts a string, boolean or number; normalization happens in
	// the service.
	Status any `json:"status"`
}

func (h *Handler) initializeAttendance(c *gin.Context) {
	res, err := h.att.Initialize(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) eventAttendance(c *gin.Context) {
	rows, err := h.att.ListForEvent(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if rows == nil {
		rows = []attendance.RowView{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) markAttendance(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("student_id is required"))
		return
	}
	claims, _ := auth.FromContext(c)

	rec, err := h.att.Mark(c.Request.Context(), c.Param("eventId"), req.StudentID, req.Status, claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if rec.Status != nil {
		metrics.AttendanceMarksTotal.WithLabelValues(*rec.Status).Inc()
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) submitAttendance(c *gin.Context) {
	affected, err := h.att.Submit(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance submitted", "updated": affected})
}

func (h *Handler) myAttendance(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	rows, err := h.att.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if rows == nil {
		rows = []attendance.Record{}
	}
	c.JSON(http.StatusOK, rows)
}

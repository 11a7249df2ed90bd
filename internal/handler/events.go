package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campusevents/internal/auth"
	"campusevents/internal/events"
)

type createEventRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	EventType   string     `json:"event_type"`
	Location    string     `json:"location"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	CollegeID   *string    `json:"college_id"`
	Sem         *int       `json:"sem"`
	Capacity    int        `json:"capacity"`
}

type updateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	EventType   *string    `json:"event_type"`
	Location    *string    `json:"location"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Sem         *int       `json:"sem"`
	Capacity    *int       `json:"capacity"`
}

func (h *Handler) listEvents(c *gin.Context) {
	filter := events.Filter{
		CollegeID: c.Query("college_id"),
		EventType: c.Query("event_type"),
	}
	if v := c.Query("sem"); v != "" {
		if sem, err := strconv.Atoi(v); err == nil {
			filter.Sem = &sem
		}
	}

	list, err := h.events.List(c.Request.Context(), filter, c.Query("sortBy"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if list == nil {
		list = []events.Event{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) eligibleEvents(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	collegeID := ""
	if claims.CollegeID != nil {
		collegeID = *claims.CollegeID
	}
	sem := 0
	if claims.Sem != nil {
		sem = *claims.Sem
	}

	list, err := h.events.Eligible(c.Request.Context(), collegeID, sem, claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getEvent(c *gin.Context) {
	evt, err := h.events.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, evt)
}

func (h *Handler) createEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	claims, _ := auth.FromContext(c)

	evt, err := h.events.Create(c.Request.Context(), events.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		EventType:   req.EventType,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CollegeID:   req.CollegeID,
		Sem:         req.Sem,
		Capacity:    req.Capacity,
	}, claims.UserID, claims.CollegeID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, evt)
}

func (h *Handler) updateEvent(c *gin.Context) {
	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	claims, _ := auth.FromContext(c)

	evt, err := h.events.Update(c.Request.Context(), c.Param("id"), events.UpdateFields{
		Title:       req.Title,
		Description: req.Description,
		EventType:   req.EventType,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Sem:         req.Sem,
		Capacity:    req.Capacity,
	}, claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, evt)
}

func (h *Handler) cancelEvent(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	evt, err := h.events.Cancel(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, evt)
}

func (h *Handler) completeEvent(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	evt, err := h.events.Complete(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, evt)
}

func (h *Handler) myEvents(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	list, err := h.events.ListByCreator(c.Request.Context(), claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if list == nil {
		list = []events.Event{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) eventRegistrations(c *gin.Context) {
	rows, err := h.regs.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

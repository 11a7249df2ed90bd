package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/apperr"
	"campusevents/internal/auth"
	"campusevents/internal/mailer"
	"campusevents/internal/metrics"
	"campusevents/internal/queue"
)

type registerRequest struct {
	EventID string `json:"event_id" binding:"required"`
}

type feedbackRequest struct {
	EventID  string  `json:"event_id" binding:"required"`
	Rating   int     `json:"rating" binding:"required"`
	Comments *string `json:"comments"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("event_id required"))
		return
	}
	claims, _ := auth.FromContext(c)

	reg, err := h.regs.Register(c.Request.Context(), req.EventID, claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	metrics.RegistrationsTotal.Inc()
	h.enqueueConfirmation(c, claims, req.EventID)

	c.JSON(http.StatusCreated, reg)
}

// enqueueConfirmation publishes a mail job for the worker. Failures are
// logged only; the registration itself already succeeded.
func (h *Handler) enqueueConfirmation(c *gin.Context, claims auth.Claims, eventID string) {
	evt, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil {
		log.Printf("confirmation mail: fetch event %s: %v", eventID, err)
		return
	}
	body, err := json.Marshal(mailer.RegistrationJob{
		Email:      claims.Email,
		Name:       claims.FullName,
		EventTitle: evt.Title,
	})
	if err != nil {
		return
	}
	if err := h.queue.Publish(c.Request.Context(), queue.Message{
		Type: mailer.JobRegistrationConfirmed,
		Body: body,
	}); err != nil {
		log.Printf("confirmation mail: queue publish: %v", err)
	}
}

func (h *Handler) submitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("event_id and rating are required"))
		return
	}
	claims, _ := auth.FromContext(c)

	fb, err := h.fb.Submit(c.Request.Context(), req.EventID, claims.UserID, req.Rating, req.Comments)
	if err != nil {
		respondErr(c, err)
		return
	}
	metrics.FeedbackTotal.Inc()
	c.JSON(http.StatusCreated, fb)
}

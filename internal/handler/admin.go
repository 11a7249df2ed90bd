package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/auth"
)

func (h *Handler) adminProfile(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	profile, err := h.users.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) adminStats(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	stats, err := h.reports.Stats(c.Request.Context(), claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/apperr"
	"campusevents/internal/auth"
	"campusevents/internal/users"
)

type signupRequest struct {
	Email     string  `json:"email" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	FullName  string  `json:"full_name" binding:"required"`
	Role      string  `json:"role"`
	CollegeID *string `json:"college_id"`
	Sem       *int    `json:"sem"`
	AdminKey  string  `json:"admin_key"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("missing fields"))
		return
	}

	user, err := h.users.Signup(c.Request.Context(), users.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		Role:      req.Role,
		CollegeID: req.CollegeID,
		Sem:       req.Sem,
		AdminKey:  req.AdminKey,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	token, exp, err := auth.Issue(users.Claims(user), h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.TokenTTL)
	if err != nil {
		respondErr(c, apperr.Internal(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "expires_at": exp.Unix(), "user": user})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Invalid("missing fields"))
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}

	token, exp, err := auth.Issue(users.Claims(user), h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.TokenTTL)
	if err != nil {
		respondErr(c, apperr.Internal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": exp.Unix(), "user": user})
}

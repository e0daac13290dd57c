package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kay-social/internal/service"
)

type signupRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type profileImageRequest struct {
	ProfileImage string `json:"profile_image" binding:"required"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	res, err := h.auth.Signup(c.Request.Context(), service.SignupInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		DisplayName:  req.Name,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, authToResponse(res))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, authToResponse(res))
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.auth.GetByID(c.Request.Context(), currentClaims(c).UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) profileImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	img, err := h.auth.ProfileImage(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

func (h *Handler) updateProfileImage(c *gin.Context) {
	var req profileImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	user, err := h.auth.SetProfileImage(c.Request.Context(), currentClaims(c).UserID, req.ProfileImage)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

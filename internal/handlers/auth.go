package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/api/internal/middleware"
	"storefront/api/internal/models"
	"storefront/api/internal/security"
	"storefront/api/internal/service"
)

type userView struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Fullname    string     `json:"fullname"`
	PhoneNumber string     `json:"phoneNumber"`
	RoleID      string     `json:"roleId"`
	RoleName    string     `json:"roleName"`
	Status      string     `json:"status"`
	LockedUntil *time.Time `json:"lockedUntil,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toUserView(u models.User) userView {
	return userView{
		ID:          u.ID,
		Email:       u.Email,
		Fullname:    u.Fullname,
		PhoneNumber: u.PhoneNumber,
		RoleID:      u.RoleID,
		RoleName:    u.RoleName,
		Status:      string(u.Status),
		LockedUntil: u.LockedUntil,
		CreatedAt:   u.CreatedAt,
	}
}

type sessionView struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	DeviceID     string   `json:"deviceId"`
	User         userView `json:"user"`
}

func toSessionView(res service.AuthResult) sessionView {
	return sessionView{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		DeviceID:     res.DeviceID,
		User:         toUserView(res.User),
	}
}

func (h HandlerSet) mustIdentity(c *gin.Context) (security.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return security.Identity{}, false
	}
	return identity, true
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Fullname    string `json:"fullname" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Fullname:    req.Fullname,
		PhoneNumber: req.PhoneNumber,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionView(res))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	DeviceID string `json:"deviceId"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		DeviceID:  req.DeviceID,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(res))
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h HandlerSet) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.authService.Refresh(c.Request.Context(), service.RefreshInput{
		RefreshToken: req.RefreshToken,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(res))
}

func (h HandlerSet) Logout(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), identity.UserID, identity.DeviceID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h HandlerSet) Profile(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}

type updateProfileRequest struct {
	Fullname    string `json:"fullname"`
	PhoneNumber string `json:"phoneNumber"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.UpdateProfile(c.Request.Context(), identity.UserID, req.Fullname, req.PhoneNumber); err != nil {
		h.respondError(c, err)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	limit, offset := pageParams(c)
	users, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

type lockUserRequest struct {
	Until *time.Time `json:"until"`
}

func (h HandlerSet) LockUser(c *gin.Context) {
	// Body is optional: no "until" means an indefinite lock.
	var req lockUserRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.authService.Lock(c.Request.Context(), c.Param("userId"), req.Until); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user locked"})
}

func (h HandlerSet) UnlockUser(c *gin.Context) {
	if err := h.authService.Unlock(c.Request.Context(), c.Param("userId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user unlocked"})
}

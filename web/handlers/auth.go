package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/security"
	"guardpost.app/guardpost/web/common"
)

type LoginDTO struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var body LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	db := h.Dm.GetDB(c.Request.Context())

	var user models.User
	err := db.Preload("Location").Where("employee_id = ?", body.EmployeeID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid credentials"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	if !security.VerifyPassword(body.Password, user.Password) {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid credentials"))
		return
	}

	token, err := security.CreateAccessToken(&user, h.Secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	refresh, err := security.CreateRefreshToken(&user, h.Secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"refreshToken": refresh,
		"user":         user,
	})
}

type RefreshDTO struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *Handler) Refresh(c *gin.Context) {
	var body RefreshDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	claims, err := security.ParseRefreshToken(body.RefreshToken, h.Secret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Invalid refresh token"))
		return
	}

	db := h.Dm.GetDB(c.Request.Context())

	// Re-read the user so a refresh picks up admin-flag or ID changes.
	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Invalid refresh token"))
		return
	}

	token, err := security.CreateAccessToken(&user, h.Secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	refresh, err := security.CreateRefreshToken(&user, h.Secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"refreshToken": refresh,
	})
}

type SignupDTO struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Name       string `json:"name"`
	IsAdmin    bool   `json:"isAdmin"`
}

// Signup has no frontend surface; it exists for bootstrapping and tooling.
func (h *Handler) Signup(c *gin.Context) {
	var body SignupDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	db := h.Dm.GetDB(c.Request.Context())

	var count int64
	if err := db.Model(&models.User{}).Where("employee_id = ?", body.EmployeeID).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Employee ID already exists"))
		return
	}

	hashed, err := security.HashPassword(body.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	user := models.User{
		EmployeeID: body.EmployeeID,
		Password:   hashed,
		Name:       body.Name,
		IsAdmin:    body.IsAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(gin.H{"message": "User created"}))
}

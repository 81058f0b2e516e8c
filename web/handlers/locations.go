package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/web/common"
)

func (h *Handler) ListLocations(c *gin.Context) {
	db := h.Dm.GetDB(c.Request.Context())

	var locations []models.Location
	if err := db.Order("name").Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(locations))
}

type AddLocationDTO struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) AddLocation(c *gin.Context) {
	var body AddLocationDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	db := h.Dm.GetDB(c.Request.Context())

	location := models.Location{Name: body.Name}
	if err := db.Create(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(location))
}

// DeleteLocation removes the post and unsets it from any users still
// assigned there, so deleting a post never strands dangling references.
func (h *Handler) DeleteLocation(c *gin.Context) {
	id := c.Param("id")
	db := h.Dm.GetDB(c.Request.Context())

	var location models.Location
	err := db.First(&location, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Location not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("location_id = ?", location.ID).Update("location_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&location).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"message": "Location deleted"}))
}

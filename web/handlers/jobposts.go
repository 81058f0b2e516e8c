package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/web/common"
)

func (h *Handler) ListJobPosts(c *gin.Context) {
	db := h.Dm.GetDB(c.Request.Context())

	var jobPosts []models.JobPost
	if err := db.Order("name").Find(&jobPosts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(jobPosts))
}

type AddJobPostDTO struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) AddJobPost(c *gin.Context) {
	var body AddJobPostDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	db := h.Dm.GetDB(c.Request.Context())

	jobPost := models.JobPost{Name: body.Name}
	if err := db.Create(&jobPost).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(jobPost))
}

// DeleteJobPost removes the job post and unsets it from assigned users.
func (h *Handler) DeleteJobPost(c *gin.Context) {
	id := c.Param("id")
	db := h.Dm.GetDB(c.Request.Context())

	var jobPost models.JobPost
	err := db.First(&jobPost, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Job post not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("job_post_id = ?", jobPost.ID).Update("job_post_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&jobPost).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"message": "Job post deleted"}))
}

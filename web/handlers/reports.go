package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/web/common"
	"guardpost.app/guardpost/web/middlewares"
)

type CreateReportDTO struct {
	Type     string `form:"type" binding:"required,oneof=all_ok problem security maintenance suspicious equipment other"`
	Message  string `form:"message" binding:"required"`
	Location string `form:"location"`
}

// CreateReport files an incident/status report with up to five attached
// pictures. Problem-class reports additionally fan out a best-effort alert.
func (h *Handler) CreateReport(c *gin.Context) {
	identity := middlewares.CurrentIdentity(c)

	var body CreateReportDTO
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	now := time.Now()
	report := models.Report{
		UserID:   identity.UserID,
		Type:     body.Type,
		Date:     now.Format("2006-01-02"),
		Time:     now.Format("15:04"),
		Message:  body.Message,
		Location: body.Location,
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["pictures"]
		if len(files) > 5 {
			files = files[:5]
		}
		for _, file := range files {
			url, err := h.saveUpload(c, file, "reports")
			if err != nil {
				log.Printf("report picture upload failed: %v", err)
				continue
			}
			report.Pictures = append(report.Pictures, url)
		}
	}

	db := h.Dm.GetDB(c.Request.Context())

	if err := db.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	if h.Notifier != nil {
		var user models.User
		if err := db.First(&user, identity.UserID).Error; err != nil {
			log.Printf("report alert skipped, user %d not loadable: %v", identity.UserID, err)
		} else {
			h.Notifier.ReportFiled(&user, &report)
		}
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(report))
}

// ListReports pages through reports for admins, filtered by date range,
// type, and reporting user.
func (h *Handler) ListReports(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	db := h.Dm.GetDB(c.Request.Context())

	query := db.Model(&models.Report{})
	if startDate := c.Query("startDate"); startDate != "" {
		query = query.Where("date >= ?", startDate)
	}
	if endDate := c.Query("endDate"); endDate != "" {
		query = query.Where("date <= ?", endDate)
	}
	if reportType := c.Query("type"); reportType != "" && reportType != "all" {
		query = query.Where("type = ?", reportType)
	}
	// The filter arrives as an employee ID, not a primary key.
	if employeeID := c.Query("userId"); employeeID != "" {
		var user models.User
		err := db.Where("employee_id = ?", employeeID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, common.NewSearchResponse([]models.Report{}, 0, page, limit))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		query = query.Where("user_id = ?", user.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	var reports []models.Report
	err = query.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(reports, total, page, limit))
}

// ProblemReportCount returns the total number of problem reports on file,
// used for the dashboard badge.
func (h *Handler) ProblemReportCount(c *gin.Context) {
	db := h.Dm.GetDB(c.Request.Context())

	var count int64
	err := db.Model(&models.Report{}).
		Where("type = ?", models.ReportTypeProblem).
		Count(&count).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

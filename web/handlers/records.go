package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"guardpost.app/guardpost/core"
	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/utils"
	"guardpost.app/guardpost/web/common"
)

// TodayAllAttendance returns every attendance record for the current date,
// with the owning user preloaded, for the admin dashboard table.
func (h *Handler) TodayAllAttendance(c *gin.Context) {
	db := h.Dm.GetDB(c.Request.Context())

	var records []models.Attendance
	err := db.Preload("User").Preload("Locations").
		Where("date = ?", utils.Today()).
		Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(records))
}

// UserAttendance returns one employee's full history, newest first.
func (h *Handler) UserAttendance(c *gin.Context) {
	employeeID := c.Param("employeeId")
	db := h.Dm.GetDB(c.Request.Context())

	var user models.User
	err := db.Where("employee_id = ?", employeeID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("User not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	var records []models.Attendance
	err = db.Preload("Locations").
		Where("user_id = ?", user.ID).
		Order("date DESC").
		Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"user":       user,
		"attendance": records,
	}))
}

type UpdateAttendanceDTO struct {
	StartTime      *string `json:"startTime"`
	LunchStartTime *string `json:"lunchStartTime"`
	LunchEndTime   *string `json:"lunchEndTime"`
	EndTime        *string `json:"endTime"`
}

// UpdateAttendanceRecord edits a single record's event times. The total is
// always rederived from the stored times, and the workbook row is rewritten
// so the mirror cannot drift from the database.
func (h *Handler) UpdateAttendanceRecord(c *gin.Context) {
	id := c.Param("id")

	var body UpdateAttendanceDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	db := h.Dm.GetDB(c.Request.Context())

	var att models.Attendance
	err := db.First(&att, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Attendance record not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	key := fmt.Sprintf("%d|%s", att.UserID, att.Date)
	h.attendanceLocks.Lock(key)
	defer h.attendanceLocks.Unlock(key)

	// The first read only established the lock key. Re-read under the lock
	// so a clock event committed in between is not overwritten by this save.
	if err := db.First(&att, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	if body.StartTime != nil {
		att.StartTime = body.StartTime
	}
	if body.LunchStartTime != nil {
		att.LunchStartTime = body.LunchStartTime
	}
	if body.LunchEndTime != nil {
		att.LunchEndTime = body.LunchEndTime
	}
	if body.EndTime != nil {
		att.EndTime = body.EndTime
	}

	if att.EndTime != nil {
		att.TotalHours = utils.Ptr(core.ComputeTotalHours(att.StartTime, att.EndTime, att.LunchStartTime, att.LunchEndTime))
	} else {
		att.TotalHours = nil
	}

	if err := db.Save(&att).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	if h.Mirror != nil {
		var user models.User
		if err := db.First(&user, att.UserID).Error; err != nil {
			log.Printf("mirror rewrite skipped, user %d not loadable: %v", att.UserID, err)
		} else if err := h.Mirror.WriteRow(&user, &att); err != nil {
			log.Printf("workbook rewrite failed for %s/%s: %v", user.EmployeeID, att.Date, err)
		}
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(att))
}

// ImportAttendance ingests a clock-device CSV export. Each employee's stamps
// for a day collapse into one record: earliest stamp starts the day, latest
// ends it. Rows for unknown employee IDs are counted and skipped.
func (h *Handler) ImportAttendance(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("CSV file is required"))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer src.Close()

	records, err := core.ParseDeviceCSV(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}

	db := h.Dm.GetDB(c.Request.Context())

	imported := 0
	skipped := 0
	for _, group := range core.GroupDeviceRecords(records) {
		var user models.User
		err := db.Where("employee_id = ?", group.EmployeeID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			skipped++
			continue
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}

		key := fmt.Sprintf("%d|%s", user.ID, group.Date)
		h.attendanceLocks.Lock(key)
		err = h.importDayGroup(db, &user, group)
		h.attendanceLocks.Unlock(key)
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		imported++
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"imported": imported,
		"skipped":  skipped,
	}))
}

func (h *Handler) importDayGroup(db *gorm.DB, user *models.User, group core.DayGroup) error {
	var att models.Attendance
	err := db.Where("user_id = ? AND date = ?", user.ID, group.Date).First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		att = models.Attendance{UserID: user.ID, Date: group.Date}
	} else if err != nil {
		return err
	}

	att.StartTime = utils.Ptr(group.From.Format(time.RFC3339))
	if len(group.Records) > 1 {
		att.EndTime = utils.Ptr(group.To.Format(time.RFC3339))
		att.TotalHours = utils.Ptr(core.ComputeTotalHours(att.StartTime, att.EndTime, att.LunchStartTime, att.LunchEndTime))
	}

	if err := db.Save(&att).Error; err != nil {
		return err
	}

	for _, record := range group.Records {
		if record.Lat == nil || record.Lng == nil {
			continue
		}
		sample := models.LocationSample{
			AttendanceID: att.ID,
			Time:         record.Timestamp.Format(time.RFC3339),
			Lat:          *record.Lat,
			Lng:          *record.Lng,
		}
		if err := db.Create(&sample).Error; err != nil {
			return err
		}
	}

	if h.Mirror != nil {
		if err := h.Mirror.WriteRow(user, &att); err != nil {
			log.Printf("workbook mirror failed for %s/%s: %v", user.EmployeeID, att.Date, err)
		}
	}

	return nil
}

// CleanupAttendance sweeps every attendance record and recomputes the total
// wherever the stored one is implausible (missing, negative, or absurdly
// large). Incomplete days recompute to 0.
func (h *Handler) CleanupAttendance(c *gin.Context) {
	db := h.Dm.GetDB(c.Request.Context())

	var records []models.Attendance
	if err := db.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	invalid := utils.Filter(records, func(att models.Attendance) bool {
		return core.IsInvalidTotal(att.TotalHours)
	})

	fixedCount := 0
	for i := range invalid {
		att := &invalid[i]
		recomputed := core.ComputeTotalHours(att.StartTime, att.EndTime, att.LunchStartTime, att.LunchEndTime)
		att.TotalHours = &recomputed
		if err := db.Save(att).Error; err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		fixedCount++
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"message":      "Attendance cleanup completed",
		"fixedCount":   fixedCount,
		"totalInvalid": len(invalid),
	}))
}

// CleanupStatus reports how many records currently carry an implausible
// total, so the dashboard can surface a cleanup prompt.
func (h *Handler) CleanupStatus(c *gin.Context) {
	db := h.Dm.GetDB(c.Request.Context())

	var records []models.Attendance
	if err := db.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	invalid := len(utils.Filter(records, func(att models.Attendance) bool {
		return core.IsInvalidTotal(att.TotalHours)
	}))

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"invalidRecords": invalid,
		"totalRecords":   len(records),
		"needsCleanup":   invalid > 0,
	}))
}

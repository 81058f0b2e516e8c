package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"guardpost.app/guardpost/core"
	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/utils"
	"guardpost.app/guardpost/web/common"
	"guardpost.app/guardpost/web/middlewares"
)

type AttendanceEventDTO struct {
	Type string   `json:"type" binding:"required,oneof=start lunch_start lunch_end end location"`
	Time string   `json:"time" binding:"required"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

// RecordEvent upserts today's attendance record with one clock event.
// Writes for the same (user, date) are serialized so concurrent events
// cannot interleave the read-modify-write; events themselves are applied
// permissively in whatever order they arrive.
func (h *Handler) RecordEvent(c *gin.Context) {
	identity := middlewares.CurrentIdentity(c)

	var body AttendanceEventDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	date := utils.Today()
	key := fmt.Sprintf("%d|%s", identity.UserID, date)
	h.attendanceLocks.Lock(key)
	defer h.attendanceLocks.Unlock(key)

	db := h.Dm.GetDB(c.Request.Context())

	var att models.Attendance
	err := db.Where("user_id = ? AND date = ?", identity.UserID, date).First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		att = models.Attendance{UserID: identity.UserID, Date: date}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	if err := core.ApplyEvent(&att, body.Type, body.Time); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}

	if err := db.Save(&att).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	if body.Lat != nil && body.Lng != nil {
		sample := models.LocationSample{
			AttendanceID: att.ID,
			Time:         body.Time,
			Lat:          *body.Lat,
			Lng:          *body.Lng,
		}
		if err := db.Create(&sample).Error; err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
	}

	// Mirror into the shared workbook; a failed mirror never fails the event.
	if h.Mirror != nil && body.Type != core.EventLocation {
		var user models.User
		if err := db.First(&user, identity.UserID).Error; err != nil {
			log.Printf("mirror skipped, user %d not loadable: %v", identity.UserID, err)
		} else if err := h.Mirror.RecordEvent(&user, &att, body.Type, body.Lat, body.Lng); err != nil {
			log.Printf("workbook mirror failed for %s/%s: %v", user.EmployeeID, att.Date, err)
		}
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"message": "Attendance updated"}))
}

// TodayAttendance returns the caller's record for the current date, or null.
func (h *Handler) TodayAttendance(c *gin.Context) {
	identity := middlewares.CurrentIdentity(c)
	db := h.Dm.GetDB(c.Request.Context())

	var att models.Attendance
	err := db.Preload("Locations").
		Where("user_id = ? AND date = ?", identity.UserID, utils.Today()).
		First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, common.NewSuccessResponse(nil))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(att))
}

type CurrentSession struct {
	Type      string  `json:"type"`
	Time      *string `json:"time"`
	StartTime *string `json:"startTime,omitempty"`
}

// AttendanceStatus reports the caller's current session so the clock UI can
// restore its state after a reload.
func (h *Handler) AttendanceStatus(c *gin.Context) {
	identity := middlewares.CurrentIdentity(c)
	db := h.Dm.GetDB(c.Request.Context())

	var att models.Attendance
	err := db.Where("user_id = ? AND date = ?", identity.UserID, utils.Today()).First(&att).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	var session *CurrentSession
	switch core.ClassifyAttendance(&att) {
	case core.StatusBreak:
		session = &CurrentSession{Type: core.EventLunchStart, Time: att.LunchStartTime, StartTime: att.StartTime}
	case core.StatusActive:
		session = &CurrentSession{Type: core.EventStart, Time: att.StartTime}
	}

	c.JSON(http.StatusOK, gin.H{"currentSession": session})
}

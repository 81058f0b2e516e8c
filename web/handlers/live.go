package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"guardpost.app/guardpost/core"
	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/utils"
	"guardpost.app/guardpost/web/common"
)

type GuardStatusEntry struct {
	EmployeeID string           `json:"employeeId"`
	Name       string           `json:"name"`
	Location   *models.Location `json:"location,omitempty"`
	Status     core.GuardStatus `json:"status"`
	LastSeen   *string          `json:"lastSeen"`
}

type ActivityEntry struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Action     string `json:"action"`
	Time       string `json:"time"`
	TimeAgo    string `json:"timeAgo"`
}

// LiveStatus assembles the dashboard snapshot: headline counters, the
// per-guard status board, and a recent-activity feed built from today's
// clock events and reports.
func (h *Handler) LiveStatus(c *gin.Context) {
	db := h.Dm.GetDB(c.Request.Context())
	today := utils.Today()
	now := time.Now()

	var users []models.User
	if err := db.Preload("Location").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	var records []models.Attendance
	if err := db.Where("date = ?", today).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	byUser := make(map[uint]*models.Attendance, len(records))
	for i := range records {
		byUser[records[i].UserID] = &records[i]
	}

	var totalPosts int64
	if err := db.Model(&models.Location{}).Count(&totalPosts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	var incidentsToday int64
	err := db.Model(&models.Report{}).
		Where("date = ? AND type = ?", today, models.ReportTypeProblem).
		Count(&incidentsToday).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	activeGuards := 0
	checkInsToday := 0
	statuses := make([]GuardStatusEntry, 0, len(users))
	var activity []ActivityEntry

	for i := range users {
		user := &users[i]
		att := byUser[user.ID]

		status := core.ClassifyAttendance(att)
		if status != core.StatusOffline {
			activeGuards++
		}
		if att != nil && att.StartTime != nil {
			checkInsToday++
		}

		statuses = append(statuses, GuardStatusEntry{
			EmployeeID: user.EmployeeID,
			Name:       user.Name,
			Location:   user.Location,
			Status:     status,
			LastSeen:   core.LastSeen(att),
		})

		if att != nil {
			activity = append(activity, guardActivity(user, att, now)...)
		}
	}

	var reports []models.Report
	err = db.Preload("User").Where("date = ?", today).
		Order("created_at DESC").Limit(20).
		Find(&reports).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	activity = append(activity, utils.Map(reports, func(report models.Report) ActivityEntry {
		entry := ActivityEntry{
			Action:  "filed a " + report.Type + " report",
			Time:    report.CreatedAt.Format(time.RFC3339),
			TimeAgo: utils.TimeAgo(report.CreatedAt, now),
		}
		if report.User != nil {
			entry.EmployeeID = report.User.EmployeeID
			entry.Name = report.User.Name
		}
		return entry
	})...)

	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].Time > activity[j].Time
	})
	if len(activity) > 20 {
		activity = activity[:20]
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"activeGuards":   activeGuards,
		"totalPosts":     totalPosts,
		"incidentsToday": incidentsToday,
		"checkInsToday":  checkInsToday,
		"guardStatuses":  statuses,
		"recentActivity": activity,
	}))
}

// guardActivity turns the day's recorded clock events into feed entries.
// Events with unparseable timestamps are left out rather than guessed at.
func guardActivity(user *models.User, att *models.Attendance, now time.Time) []ActivityEntry {
	events := []struct {
		action string
		value  *string
	}{
		{"started work", att.StartTime},
		{"went on lunch", att.LunchStartTime},
		{"returned from lunch", att.LunchEndTime},
		{"ended work", att.EndTime},
	}

	var entries []ActivityEntry
	for _, event := range events {
		if event.value == nil {
			continue
		}
		t, err := utils.ParseISOTime(*event.value)
		if err != nil {
			continue
		}
		entries = append(entries, ActivityEntry{
			EmployeeID: user.EmployeeID,
			Name:       user.Name,
			Action:     event.action,
			Time:       t.Format(time.RFC3339),
			TimeAgo:    utils.TimeAgo(*t, now),
		})
	}
	return entries
}

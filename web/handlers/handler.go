package handlers

import (
	"github.com/gin-gonic/gin"
	"guardpost.app/guardpost/core"
	"guardpost.app/guardpost/infrastructure/communication"
	"guardpost.app/guardpost/infrastructure/spreadsheet"
	"guardpost.app/guardpost/utils"
	"guardpost.app/guardpost/web/middlewares"
)

// Handler carries the dependencies every route needs. One instance is built
// at startup and shared across requests.
type Handler struct {
	Dm        *core.DatabaseManager
	Secret    []byte
	Mirror    *spreadsheet.Mirror
	Notifier  *communication.Notifier
	UploadDir string

	// ImageBucket enables the best-effort S3 archive of uploaded images
	// when non-empty.
	ImageBucket string

	attendanceLocks *utils.KeyedMutex
}

func New(dm *core.DatabaseManager, secret []byte, mirror *spreadsheet.Mirror, notifier *communication.Notifier, uploadDir, imageBucket string) *Handler {
	return &Handler{
		Dm:              dm,
		Secret:          secret,
		Mirror:          mirror,
		Notifier:        notifier,
		UploadDir:       uploadDir,
		ImageBucket:     imageBucket,
		attendanceLocks: utils.NewKeyedMutex(),
	}
}

func (h *Handler) Register(r *gin.Engine) {
	r.POST("/api/login", h.Login)
	r.POST("/api/auth/refresh", h.Refresh)
	r.POST("/api/signup", h.Signup)

	protected := r.Group("/api")
	protected.Use(middlewares.Authentication(h.Secret))
	{
		protected.POST("/attendance", h.RecordEvent)
		protected.GET("/attendance", h.TodayAttendance)
		protected.GET("/attendance/status", h.AttendanceStatus)

		protected.POST("/reports", h.CreateReport)

		protected.GET("/live/status", h.LiveStatus)
	}

	admin := protected.Group("/admin")
	admin.Use(middlewares.RequireAdmin())
	{
		admin.GET("/attendance", h.TodayAllAttendance)
		admin.GET("/user-attendance/:employeeId", h.UserAttendance)
		admin.PUT("/attendance/record/:id", h.UpdateAttendanceRecord)
		admin.POST("/attendance/import", h.ImportAttendance)
		admin.POST("/attendance/cleanup", h.CleanupAttendance)
		admin.GET("/attendance/cleanup-status", h.CleanupStatus)

		admin.GET("/users", h.ListUsers)
		admin.POST("/add-user", h.AddUser)
		admin.PUT("/edit-user/:employeeId", h.EditUser)
		admin.DELETE("/delete-user/:employeeId", h.DeleteUser)
		admin.GET("/next-employee-id", h.NextEmployeeID)

		admin.GET("/locations", h.ListLocations)
		admin.POST("/add-location", h.AddLocation)
		admin.DELETE("/delete-location/:id", h.DeleteLocation)

		admin.GET("/jobPost", h.ListJobPosts)
		admin.POST("/add-jobPost", h.AddJobPost)
		admin.DELETE("/delete-jobPost/:id", h.DeleteJobPost)

		admin.GET("/reports", h.ListReports)
		admin.GET("/reports/count", h.ProblemReportCount)

		admin.GET("/archive", h.ListArchive)
		admin.GET("/archive/*key", h.DownloadArchive)
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"guardpost.app/guardpost/core"
	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/utils"
)

// newTestHandler backs a Handler with a throwaway sqlite database so route
// behavior can be exercised without a MySQL server. The pool is capped at
// one connection to keep sqlite's locking out of the picture.
func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	dm, err := core.NewWithGorm(gormDB)
	require.NoError(t, err)
	require.NoError(t, dm.Migrate())

	return New(dm, []byte("test-signing-secret"), nil, nil, t.TempDir(), "")
}

// testRouter wires the routes under test directly, without the auth
// middleware; middleware behavior has its own tests.
func testRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/live/status", h.LiveStatus)
	r.GET("/api/admin/reports", h.ListReports)
	r.GET("/api/admin/reports/count", h.ProblemReportCount)
	r.PUT("/api/admin/attendance/record/:id", h.UpdateAttendanceRecord)
	r.POST("/api/admin/attendance/cleanup", h.CleanupAttendance)
	r.GET("/api/admin/attendance/cleanup-status", h.CleanupStatus)
	return r
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func seedUser(t *testing.T, h *Handler, employeeID, name string) *models.User {
	t.Helper()
	user := &models.User{EmployeeID: employeeID, Name: name, Password: "x"}
	require.NoError(t, h.Dm.GetDB(context.Background()).Create(user).Error)
	return user
}

func TestLiveStatusCountsOnlyProblemIncidents(t *testing.T) {
	h := newTestHandler(t)
	r := testRouter(h)
	db := h.Dm.GetDB(context.Background())

	user := seedUser(t, h, "0001", "Alice")
	today := utils.Today()
	for _, reportType := range []string{
		models.ReportTypeProblem,
		models.ReportTypeAllOK,
		models.ReportTypeSecurity,
	} {
		require.NoError(t, db.Create(&models.Report{
			UserID: user.ID, Type: reportType, Date: today, Time: "09:00", Message: "m",
		}).Error)
	}

	w := doRequest(r, http.MethodGet, "/api/live/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["incidentsToday"])
}

func TestProblemReportCountSpansAllDates(t *testing.T) {
	h := newTestHandler(t)
	r := testRouter(h)
	db := h.Dm.GetDB(context.Background())

	user := seedUser(t, h, "0001", "Alice")
	reports := []models.Report{
		{UserID: user.ID, Type: models.ReportTypeProblem, Date: "2020-05-01", Time: "09:00", Message: "old"},
		{UserID: user.ID, Type: models.ReportTypeProblem, Date: utils.Today(), Time: "10:00", Message: "new"},
		{UserID: user.ID, Type: models.ReportTypeAllOK, Date: utils.Today(), Time: "11:00", Message: "ok"},
	}
	for i := range reports {
		require.NoError(t, db.Create(&reports[i]).Error)
	}

	w := doRequest(r, http.MethodGet, "/api/admin/reports/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["count"])
}

func TestListReportsFiltersByEmployeeID(t *testing.T) {
	h := newTestHandler(t)
	r := testRouter(h)
	db := h.Dm.GetDB(context.Background())

	alice := seedUser(t, h, "0001", "Alice")
	bob := seedUser(t, h, "0002", "Bob")
	for _, u := range []*models.User{alice, bob} {
		require.NoError(t, db.Create(&models.Report{
			UserID: u.ID, Type: models.ReportTypeProblem, Date: utils.Today(), Time: "09:00", Message: "m",
		}).Error)
	}

	w := doRequest(r, http.MethodGet, "/api/admin/reports?userId=0002", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["data"].([]interface{}), 1)
	assert.Equal(t, float64(1), body["pagination"].(map[string]interface{})["total"])

	// unknown employee matches nothing rather than everything
	w = doRequest(r, http.MethodGet, "/api/admin/reports?userId=9999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Len(t, body["data"].([]interface{}), 0)

	// "all" is a pass-through, not a literal type
	w = doRequest(r, http.MethodGet, "/api/admin/reports?type=all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Len(t, body["data"].([]interface{}), 2)
}

func TestUpdateAttendanceRecordKeepsConcurrentEvent(t *testing.T) {
	h := newTestHandler(t)
	r := testRouter(h)
	db := h.Dm.GetDB(context.Background())

	user := seedUser(t, h, "0001", "Alice")
	att := models.Attendance{
		UserID:    user.ID,
		Date:      "2024-01-01",
		StartTime: utils.Ptr("2024-01-01T09:00:00Z"),
	}
	require.NoError(t, db.Create(&att).Error)

	// Hold the day's lock so the admin edit blocks, then land a clock
	// event before releasing it. The edit must not wipe that event out.
	key := fmt.Sprintf("%d|%s", user.ID, att.Date)
	h.attendanceLocks.Lock(key)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- doRequest(r, http.MethodPut,
			fmt.Sprintf("/api/admin/attendance/record/%d", att.ID),
			UpdateAttendanceDTO{EndTime: utils.Ptr("2024-01-01T17:00:00Z")})
	}()

	require.NoError(t, db.Model(&models.Attendance{}).
		Where("id = ?", att.ID).
		Update("lunch_start_time", "2024-01-01T12:00:00Z").Error)
	h.attendanceLocks.Unlock(key)

	w := <-done
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Attendance
	require.NoError(t, db.First(&got, att.ID).Error)
	if assert.NotNil(t, got.LunchStartTime) {
		assert.Equal(t, "2024-01-01T12:00:00Z", *got.LunchStartTime)
	}
	if assert.NotNil(t, got.EndTime) {
		assert.Equal(t, "2024-01-01T17:00:00Z", *got.EndTime)
	}
	// lunch end never arrived, so the open lunch is not subtracted
	if assert.NotNil(t, got.TotalHours) {
		assert.Equal(t, 8.0, *got.TotalHours)
	}
}

func TestCleanupSweepsAllRecords(t *testing.T) {
	h := newTestHandler(t)
	r := testRouter(h)
	db := h.Dm.GetDB(context.Background())

	user := seedUser(t, h, "0001", "Alice")
	records := []models.Attendance{
		// incomplete day, never computed
		{UserID: user.ID, Date: "2024-01-01", StartTime: utils.Ptr("2024-01-01T09:00:00Z")},
		// completed and valid
		{UserID: user.ID, Date: "2024-01-02",
			StartTime:  utils.Ptr("2024-01-02T09:00:00Z"),
			EndTime:    utils.Ptr("2024-01-02T16:30:00Z"),
			TotalHours: utils.Ptr(7.5)},
		// completed but corrupted
		{UserID: user.ID, Date: "2024-01-03",
			StartTime:  utils.Ptr("2024-01-03T09:00:00Z"),
			EndTime:    utils.Ptr("2024-01-03T17:00:00Z"),
			TotalHours: utils.Ptr(-3.0)},
	}
	for i := range records {
		require.NoError(t, db.Create(&records[i]).Error)
	}

	w := doRequest(r, http.MethodGet, "/api/admin/attendance/cleanup-status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["invalidRecords"])
	assert.Equal(t, float64(3), data["totalRecords"])
	assert.Equal(t, true, data["needsCleanup"])

	w = doRequest(r, http.MethodPost, "/api/admin/attendance/cleanup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["fixedCount"])
	assert.Equal(t, float64(2), data["totalInvalid"])

	var got []models.Attendance
	require.NoError(t, db.Order("date").Find(&got).Error)
	if assert.NotNil(t, got[0].TotalHours) {
		assert.Equal(t, 0.0, *got[0].TotalHours) // no end stamp -> 0
	}
	if assert.NotNil(t, got[1].TotalHours) {
		assert.Equal(t, 7.5, *got[1].TotalHours) // valid record untouched
	}
	if assert.NotNil(t, got[2].TotalHours) {
		assert.Equal(t, 8.0, *got[2].TotalHours) // corrupted total recomputed
	}

	w = doRequest(r, http.MethodGet, "/api/admin/attendance/cleanup-status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["invalidRecords"])
	assert.Equal(t, false, data["needsCleanup"])
}

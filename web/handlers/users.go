package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"guardpost.app/guardpost/core"
	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/security"
	"guardpost.app/guardpost/web/common"
)

func (h *Handler) ListUsers(c *gin.Context) {
	db := h.Dm.GetDB(c.Request.Context())

	var users []models.User
	if err := db.Preload("Location").Preload("JobPost").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(users))
}

type AddUserDTO struct {
	EmployeeID string `form:"employeeId" binding:"required"`
	Password   string `form:"password" binding:"required"`
	Name       string `form:"name"`
	IsAdmin    bool   `form:"isAdmin"`
	Email      string `form:"email"`
	Phone      string `form:"phone"`
	Address    string `form:"address"`
	LocationID *uint  `form:"locationId"`
	JobPostID  *uint  `form:"jobPostId"`
}

// AddUser creates a user from a multipart form carrying an optional profile
// picture and up to five ID documents. Image handling failures do not fail
// the create.
func (h *Handler) AddUser(c *gin.Context) {
	var body AddUserDTO
	if err := c.ShouldBind(&body); err != nil {
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
		Email:      body.Email,
		Phone:      body.Phone,
		Address:    body.Address,
		LocationID: body.LocationID,
		JobPostID:  body.JobPostID,
	}

	user.ProfilePic, user.IDDocs = h.collectUserImages(c, body.EmployeeID, "", nil)

	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(gin.H{"message": "User created"}))
}

type EditUserDTO struct {
	EmployeeID *string `form:"employeeId"`
	Password   *string `form:"password"`
	Name       *string `form:"name"`
	IsAdmin    *bool   `form:"isAdmin"`
	Email      *string `form:"email"`
	Phone      *string `form:"phone"`
	Address    *string `form:"address"`
	LocationID *uint   `form:"locationId"`
	JobPostID  *uint   `form:"jobPostId"`
}

func (h *Handler) EditUser(c *gin.Context) {
	employeeID := c.Param("employeeId")

	var body EditUserDTO
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

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

	previousEmployeeID := user.EmployeeID
	if body.EmployeeID != nil {
		user.EmployeeID = *body.EmployeeID
	}
	if body.Name != nil {
		user.Name = *body.Name
	}
	if body.IsAdmin != nil {
		user.IsAdmin = *body.IsAdmin
	}
	if body.Email != nil {
		user.Email = *body.Email
	}
	if body.Phone != nil {
		user.Phone = *body.Phone
	}
	if body.Address != nil {
		user.Address = *body.Address
	}
	if body.LocationID != nil {
		user.LocationID = body.LocationID
	}
	if body.JobPostID != nil {
		user.JobPostID = body.JobPostID
	}
	if body.Password != nil && *body.Password != "" {
		hashed, err := security.HashPassword(*body.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		user.Password = hashed
	}

	user.ProfilePic, user.IDDocs = h.collectUserImages(c, employeeID, user.ProfilePic, user.IDDocs)

	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	// Keep the workbook history under the new ID; best-effort like every
	// other mirror write.
	if h.Mirror != nil && user.EmployeeID != previousEmployeeID {
		if err := h.Mirror.RenameSheet(previousEmployeeID, user.EmployeeID); err != nil {
			log.Printf("workbook sheet rename %s -> %s failed: %v", previousEmployeeID, user.EmployeeID, err)
		}
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"message": "User updated",
		"user":    user,
	}))
}

// collectUserImages pulls profilePic/idDocs files off the multipart form.
// The current values are returned unchanged when no new files were sent;
// individual upload failures are logged and skipped.
func (h *Handler) collectUserImages(c *gin.Context, employeeID, currentPic string, currentDocs []string) (string, []string) {
	pic := currentPic
	docs := currentDocs

	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return pic, docs
	}

	if files := form.File["profilePic"]; len(files) > 0 {
		if url, err := h.saveUpload(c, files[0], employeeID); err != nil {
			log.Printf("profile picture upload failed for %s: %v", employeeID, err)
		} else {
			pic = url
		}
	}

	if files := form.File["idDocs"]; len(files) > 0 {
		if len(files) > 5 {
			files = files[:5]
		}
		docs = nil
		for _, file := range files {
			url, err := h.saveUpload(c, file, employeeID)
			if err != nil {
				log.Printf("id document upload failed for %s: %v", employeeID, err)
				continue
			}
			docs = append(docs, url)
		}
	}

	return pic, docs
}

// DeleteUser removes the user and all of their attendance history.
func (h *Handler) DeleteUser(c *gin.Context) {
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

	err = db.Transaction(func(tx *gorm.DB) error {
		attendanceIDs := tx.Model(&models.Attendance{}).Select("id").Where("user_id = ?", user.ID)
		if err := tx.Where("attendance_id IN (?)", attendanceIDs).Delete(&models.LocationSample{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"message": "User deleted"}))
}

// NextEmployeeID suggests the next free numeric ID. Advisory only: two
// concurrent admins can receive the same suggestion and the second insert
// will fail on the unique index.
func (h *Handler) NextEmployeeID(c *gin.Context) {
	db := h.Dm.GetDB(c.Request.Context())

	var ids []string
	if err := db.Model(&models.User{}).Pluck("employee_id", &ids).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"nextEmployeeId": core.NextEmployeeID(ids)})
}

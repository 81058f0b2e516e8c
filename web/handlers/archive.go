package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"guardpost.app/guardpost/infrastructure/filesystem"
	"guardpost.app/guardpost/web/common"
)

// ListArchive lists the keys archived to the image bucket, so admins can
// recover uploads that are gone from local disk.
func (h *Handler) ListArchive(c *gin.Context) {
	if h.ImageBucket == "" {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("image archive is not configured"))
		return
	}

	keys, err := filesystem.ListFiles(h.ImageBucket, c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(keys))
}

// DownloadArchive streams one archived object back to the admin.
func (h *Handler) DownloadArchive(c *gin.Context) {
	if h.ImageBucket == "" {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("image archive is not configured"))
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("object key is required"))
		return
	}

	var buf bytes.Buffer
	if err := filesystem.ReadFile(h.ImageBucket, key, c.Request.Context(), &buf); err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse(err.Error()))
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(buf.Bytes()), buf.Bytes())
}

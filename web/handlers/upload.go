package handlers

import (
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"guardpost.app/guardpost/infrastructure/filesystem"
)

// saveUpload stores one uploaded image/document under the upload dir and
// returns its public /uploads URL path. When an image bucket is configured
// the file is also archived to S3; that archive is best-effort and a
// failure only logs.
func (h *Handler) saveUpload(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".pdf":
	default:
		return "", fmt.Errorf("unsupported file type %q", ext)
	}

	base := strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename))
	name := fmt.Sprintf("%s-%s%s", base, uuid.NewString(), ext)

	dst := filepath.Join(h.UploadDir, subdir, name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}

	if h.ImageBucket != "" {
		key := path.Join(subdir, name)
		if data, err := os.ReadFile(dst); err != nil {
			log.Printf("image archive skipped, cannot re-read %s: %v", dst, err)
		} else if err := filesystem.WriteFile(h.ImageBucket, key, c.Request.Context(), data); err != nil {
			log.Printf("image archive to s3 failed for %s: %v", key, err)
		}
	}

	return path.Join("/uploads", subdir, name), nil
}

package utils

import (
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kovaikural/kural/config"
)

var ErrNotAnImage = errors.New("only image files are allowed")

// SaveUploadedImage stores an uploaded image under the configured upload
// directory with a random name and returns its public URL path.
func SaveUploadedImage(ctx *gin.Context, file *multipart.FileHeader) (string, error) {
	cfg := config.Get()

	if file.Size > int64(cfg.MaxUploadSizeMB)*1024*1024 {
		return "", errors.New("file too large")
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", ErrNotAnImage
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", ErrNotAnImage
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(cfg.UploadDir, name)
	if err := ctx.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}

	return "/uploads/" + name, nil
}

package handler

import (
	"errors"
	"fmt"
	"image"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const maxUploadSize = 5 << 20

const (
	blogUploadDir  = "blog"
	eventUploadDir = "events"
)

var (
	errNotImage       = errors.New("only image files are allowed")
	errUploadTooLarge = errors.New("file exceeds the 5MB limit")
)

// saveImage 将上传图片保存到 uploadDir/subdir，并返回 /images 下的访问地址。
func (a *API) saveImage(c *gin.Context, file *multipart.FileHeader, subdir, prefix string) (string, error) {
	if file.Size > maxUploadSize {
		return "", errUploadTooLarge
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", errNotImage
	}
	if err := sniffImage(file); err != nil {
		return "", err
	}

	dir := filepath.Join(a.uploadDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := prefix + uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path.Join("/images", subdir, name), nil
}

// saveImages 保存字段中的全部文件，任一失败时删除已保存的文件。
func (a *API) saveImages(c *gin.Context, field, subdir, prefix string) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}

	urls := make([]string, 0, len(form.File[field]))
	for _, file := range form.File[field] {
		url, err := a.saveImage(c, file, subdir, prefix)
		if err != nil {
			a.removeUploads(urls...)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// removeUploads 删除 saveImage 保存的文件。
func (a *API) removeUploads(urls ...string) {
	for _, url := range urls {
		rel := strings.TrimPrefix(url, "/images/")
		if rel == url || rel == "" {
			continue
		}
		if err := os.Remove(filepath.Join(a.uploadDir, filepath.FromSlash(rel))); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("file", url).Msg("failed to remove upload")
		}
	}
}

func sniffImage(file *multipart.FileHeader) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if _, _, err := image.DecodeConfig(src); err != nil {
		return errNotImage
	}
	return nil
}

func respondUploadError(c *gin.Context, err error) {
	if errors.Is(err, errNotImage) || errors.Is(err, errUploadTooLarge) {
		respondError(c, http.StatusBadRequest, "File upload error: "+err.Error())
		return
	}
	respondServiceError(c, err, "")
}

// UploadContentImage 处理正文编辑器中的图片上传。
func (a *API) UploadContentImage(c *gin.Context) {
	file, err := c.FormFile("contentImage")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No image file provided")
		return
	}

	url, err := a.saveImage(c, file, blogUploadDir, "contentImage-")
	if err != nil {
		respondUploadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imageUrl": url,
		"message":  "Image uploaded successfully",
	})
}

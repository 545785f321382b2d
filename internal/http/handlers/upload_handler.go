package handlers

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"printshop/internal/domain"
	applog "printshop/internal/log"
	"printshop/internal/media"
)

const maxFilesPerUpload = 10

type UploadHandler struct {
	Store *media.Store
}

// Upload stores an `image` field, or up to ten `files`, and returns their
// metadata. The URLs go into product, category and blog payloads.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return domain.Invalid("multipart form expected")
	}
	headers := form.File["files"]
	if img := form.File["image"]; len(img) > 0 {
		headers = append(img[:1:1], headers...)
	}
	if len(headers) == 0 {
		return domain.Invalid("image or files is required")
	}
	if len(headers) > maxFilesPerUpload {
		return domain.Invalid("at most %d files per upload", maxFilesPerUpload)
	}

	saved := make([]*domain.FileMeta, 0, len(headers))
	for _, fh := range headers {
		meta, err := h.Store.Save(fh, media.Image)
		if err != nil {
			for _, m := range saved {
				h.Store.Remove(m.URL)
			}
			return err
		}
		saved = append(saved, meta)
	}
	applog.Audit(c, "admin.upload", map[string]any{"count": len(saved)})
	return created(c, "Uploaded", saved)
}

// Serve streams files under /uploads/* and refuses traversal attempts.
func (h *UploadHandler) Serve(c *fiber.Ctx) error {
	path := c.Params("*")
	lower := strings.ToLower(path)
	if strings.Contains(lower, "..") || strings.Contains(lower, "%2e") || strings.Contains(lower, "\x00") {
		applog.Security(c, "media.traversal.block", map[string]any{"path": path})
		return domain.NotFound("file")
	}
	clean := filepath.Clean(path)
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		applog.Security(c, "media.traversal.block", map[string]any{"path": path})
		return domain.NotFound("file")
	}
	if err := c.SendFile(filepath.Join(h.Store.Root, clean), true); err != nil {
		return domain.NotFound("file")
	}
	return nil
}

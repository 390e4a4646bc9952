package handlers

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// MaxUploadSize is the largest accepted image. The server body limit must
// leave room for it plus the multipart framing.
const MaxUploadSize = 5 * 1024 * 1024

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

func (h *Handler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No image file provided",
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only jpg, png, and webp images are allowed",
		})
	}

	if file.Size > MaxUploadSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image must be under 5MB",
		})
	}

	f, err := file.Open()
	if err != nil {
		return fail(c, err, "Failed to read image")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return fail(c, err, "Failed to read image")
	}

	url, err := h.blobs.Upload(c.UserContext(), data, file.Filename, contentType)
	if err != nil {
		return fail(c, err, "Failed to save image")
	}
	return c.JSON(fiber.Map{
		"url": url,
	})
}

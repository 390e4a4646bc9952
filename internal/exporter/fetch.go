package exporter

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/arnold/visionboard-api/internal/outbound"
	"github.com/gofiber/fiber/v2"
	_ "golang.org/x/image/webp"
)

// ImageFetcher loads the pictures a board references.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// HTTPFetcher downloads and decodes png, jpeg, gif and webp images.
type HTTPFetcher struct {
	Timeout time.Duration
}

func (f HTTPFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	code, body, err := outbound.Do(ctx, fiber.Get(url), f.Timeout)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, code)
	}
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}

// Package blobstore stores uploaded and rendered images and hands back a
// public URL for them.
package blobstore

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

type Store interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
}

var (
	unsafeChars = regexp.MustCompile(`[^\w.-]`)
	whitespace  = regexp.MustCompile(`\s+`)
	hyphens     = regexp.MustCompile(`-+`)
)

// SanitizeFilename replaces every character outside [A-Za-z0-9_.-] with a
// hyphen, collapses hyphen runs and lower-cases the result.
func SanitizeFilename(name string) string {
	name = unsafeChars.ReplaceAllString(name, "-")
	name = whitespace.ReplaceAllString(name, "-")
	name = hyphens.ReplaceAllString(name, "-")
	return strings.ToLower(name)
}

// ObjectKey namespaces a sanitized filename under goals/ with a unique
// prefix so uploads never overwrite each other.
func ObjectKey(filename string) string {
	return "goals/" + uuid.NewString() + "-" + SanitizeFilename(filename)
}

// Package assets stores binary assets (currently images) on disk for the
// rest of the application, which references them by returned path only.
package assets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"bigbrain/internal/domain"
)

// validImageTypes is the allow-list of accepted image types.
var validImageTypes = []string{"png", "jpg", "jpeg", "gif"}

// ImageStore saves image blobs under a directory, naming each file with a
// fresh UUID so callers never collide.
type ImageStore struct {
	dir    string
	logger *slog.Logger
}

// NewImageStore creates an ImageStore rooted at dir, creating the directory
// recursively if absent. If logger is nil, a default logger will be used.
func NewImageStore(dir string, logger *slog.Logger) (*ImageStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create images directory %s: %w", dir, err)
	}

	return &ImageStore{
		dir:    dir,
		logger: logger.With(slog.String("component", "image_store")),
	}, nil
}

// Save writes the image to disk and returns its path. The declared type
// must be one of png, jpg, jpeg, or gif; anything else is rejected with
// domain.ErrInvalidImageType before any file is written.
func (s *ImageStore) Save(data []byte, imageType string) (string, error) {
	if !isValidImageType(imageType) {
		return "", fmt.Errorf("%w: must be one of: %s",
			domain.ErrInvalidImageType, strings.Join(validImageTypes, ", "))
	}

	name := fmt.Sprintf("%s.%s", uuid.New().String(), imageType)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Error("failed to write image",
			slog.String("error", err.Error()),
			slog.String("path", path))
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	s.logger.Info("image saved",
		slog.String("path", path),
		slog.Int("bytes", len(data)))
	return path, nil
}

// isValidImageType checks the declared type against the allow-list.
func isValidImageType(imageType string) bool {
	for _, t := range validImageTypes {
		if t == imageType {
			return true
		}
	}
	return false
}

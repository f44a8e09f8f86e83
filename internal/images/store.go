// Package images stores uploaded post and profile images on local disk.
package images

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidBasePath is returned when the store base path is empty
	ErrInvalidBasePath = errors.New("image store base path cannot be empty")

	// ErrUnsupportedType is returned for uploads that are not png or jpeg
	ErrUnsupportedType = errors.New("unsupported image type")
)

// allowed upload content types, matching the extension written to disk
var allowedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
}

// DiskStore writes images under a base directory and serves them by
// relative path. Stored paths use the form images/{uuid}{ext}.
type DiskStore struct {
	basePath string
}

// NewDiskStore creates a DiskStore rooted at basePath, creating the
// directory if needed.
func NewDiskStore(basePath string) (*DiskStore, error) {
	if basePath == "" {
		return nil, ErrInvalidBasePath
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &DiskStore{basePath: basePath}, nil
}

// Save writes an uploaded file to disk and returns its relative path.
func (s *DiskStore) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.basePath, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return "images/" + name, nil
}

// Remove deletes a stored image by its relative path. Missing files are
// not an error so repeated release requests stay idempotent.
func (s *DiskStore) Remove(path string) error {
	name := filepath.Base(strings.TrimPrefix(path, "images/"))
	if name == "" || name == "." || name == ".." {
		return nil
	}

	err := os.Remove(filepath.Join(s.basePath, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove image file: %w", err)
	}
	return nil
}

// BasePath returns the directory images are stored in, for static serving.
func (s *DiskStore) BasePath() string {
	return s.basePath
}

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PhotoStorage persists uploaded member photos on disk, grouped per tenant.
type PhotoStorage struct {
	baseDir    string
	allowedExt map[string]struct{}
}

// NewPhotoStorage ensures the base directory exists and returns a handle.
func NewPhotoStorage(baseDir string, allowedExtensions []string) (*PhotoStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &PhotoStorage{baseDir: baseDir, allowedExt: allowed}, nil
}

// Save writes photo bytes under <base>/<tenant>/photos and returns the
// relative path for persistence. Unknown extensions fall back to jpg.
func (s *PhotoStorage) Save(tenantID, originalName string, data []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if _, ok := s.allowedExt[ext]; !ok {
		ext = "jpg"
	}

	dir := filepath.Join(s.baseDir, tenantID, "photos")
	if err := os.MkdirAll(dir, 0o775); err != nil {
		return "", fmt.Errorf("prepare photo directory: %w", err)
	}

	name := fmt.Sprintf("photo_%s_%s_%s.%s",
		tenantID,
		time.Now().Format("20060102_150405"),
		uuid.NewString()[:8],
		ext,
	)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write photo file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(tenantID, "photos", name)), nil
}

// Open returns a read-only handle for a stored photo.
func (s *PhotoStorage) Open(relPath string) (*os.File, error) {
	path, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open photo file: %w", err)
	}
	return file, nil
}

// Delete removes a stored photo if present.
func (s *PhotoStorage) Delete(relPath string) error {
	path, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete photo file: %w", err)
	}
	return nil
}

func (s *PhotoStorage) resolve(relPath string) (string, error) {
	cleaned := filepath.Clean(relPath)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid photo path %q", relPath)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

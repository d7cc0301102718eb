package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService keeps the original uploaded files on local disk.
type StorageService interface {
	EnsureUploadDir() error
	SaveFile(originalName string, data []byte) (string, error)
	GetFilePath(storedName string) string
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveFile writes data under a unique name that keeps the original base name
// for readability and returns the stored name.
func (s *storageService) SaveFile(originalName string, data []byte) (string, error) {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)

	storedName := fmt.Sprintf("%s_%s%s", base, uuid.New().String(), ext)
	if err := os.WriteFile(s.GetFilePath(storedName), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return storedName, nil
}

// OriginalName recovers the upload name from a name produced by SaveFile.
// Names without the generated suffix are returned unchanged.
func OriginalName(storedName string) string {
	ext := filepath.Ext(storedName)
	base := strings.TrimSuffix(filepath.Base(storedName), ext)

	idx := strings.LastIndex(base, "_")
	if idx < 0 {
		return base + ext
	}
	if _, err := uuid.Parse(base[idx+1:]); err != nil {
		return base + ext
	}
	return base[:idx] + ext
}

func (s *storageService) GetFilePath(storedName string) string {
	return filepath.Join(s.uploadPath, filepath.Base(storedName))
}

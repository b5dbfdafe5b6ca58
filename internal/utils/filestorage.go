package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// BlobStorage abstracts where player photos and academy logos live.
// Local disk for dev, Cloudflare R2 in production.
type BlobStorage interface {
	SaveFile(subDir, originalFilename string, reader io.Reader) (string, error)
	DeleteFile(key string) error
}

// FileStorage keeps uploads on local disk under BaseDir.
type FileStorage struct {
	BaseDir string
}

func NewFileStorage(baseDir string) *FileStorage {
	return &FileStorage{BaseDir: baseDir}
}

// SaveFile writes reader to <BaseDir>/<subDir>/<unique name> and returns the
// key (path relative to BaseDir, forward slashes) to store in the DB.
func (fs *FileStorage) SaveFile(subDir, originalFilename string, reader io.Reader) (string, error) {
	dir := filepath.Join(fs.BaseDir, subDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}

	ext := filepath.Ext(originalFilename)
	uniqueName := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	fullPath := filepath.Join(dir, uniqueName)

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create file %s: %w", fullPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", fmt.Errorf("write file %s: %w", fullPath, err)
	}

	return filepath.ToSlash(filepath.Join(subDir, uniqueName)), nil
}

// DeleteFile removes the file for key. Missing files are not an error.
func (fs *FileStorage) DeleteFile(key string) error {
	fullPath := filepath.Join(fs.BaseDir, filepath.FromSlash(key))
	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file %s: %w", fullPath, err)
	}
	return nil
}

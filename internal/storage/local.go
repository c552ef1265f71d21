package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileStore — контракт файлового хранилища для загруженных документов.
type FileStore interface {
	Save(src io.Reader, originalName string) (path string, size int64, err error)
	Open(path string) (*os.File, error)
	Remove(path string) error
}

// LocalStorage хранит файлы в локальной директории загрузок.
// Имя на диске генерируется и не зависит от имени, присланного клиентом,
// поэтому параллельные загрузки не могут столкнуться.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию загрузок: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Save(src io.Reader, originalName string) (string, int64, error) {
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), filepath.Ext(originalName))
	fullPath := filepath.Join(s.dir, name)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", 0, err
	}

	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return "", 0, err
	}

	return fullPath, size, nil
}

func (s *LocalStorage) Open(path string) (*os.File, error) {
	return os.Open(path)
}

func (s *LocalStorage) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

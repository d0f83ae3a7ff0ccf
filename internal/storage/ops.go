package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/cesargomez89/soundhall/internal/constants"
)

func Sanitize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if strings.ContainsRune("<>:\"/\\|?*", r) {
			return -1
		}
		return r
	}, s)

	return strings.TrimRight(mapped, ". ")
}

// SafeName reports whether s survives Sanitize unchanged. Media paths are
// built from usernames, so only such names keep users' files apart.
func SafeName(s string) bool {
	return s != "" && Sanitize(s) == s
}

func EnsureDir(path string) error {
	return os.MkdirAll(path, constants.DirPermissions)
}

func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}
	return nil
}

func RemoveFile(path string) error {
	return os.Remove(path)
}

func DeleteFolderIfEmpty(dirPath string) error {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(entries) == 0 {
		return os.Remove(dirPath)
	}
	return nil
}

// MediaStore keeps uploaded files under a root directory. Callers pass and
// persist paths relative to that root.
type MediaStore struct {
	Root string
}

func NewMediaStore(root string) *MediaStore {
	return &MediaStore{Root: root}
}

// Abs resolves a relative media path under the root.
func (m *MediaStore) Abs(rel string) string {
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}

// Save streams r to rel. The data lands in a uniquely named temp file next
// to the target and is renamed into place, so readers never see a partial
// file and an existing file is replaced atomically.
func (m *MediaStore) Save(rel string, r io.Reader) (int64, error) {
	dst := m.Abs(rel)
	dir := filepath.Dir(dst)
	if err := EnsureDir(dir); err != nil {
		return 0, fmt.Errorf("failed to create media directory: %w", err)
	}

	tmp := filepath.Join(dir, "."+uuid.New().String()+".tmp")
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, constants.FilePermissions)
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	n, err := io.Copy(f, r)
	if cErr := f.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		_ = RemoveFile(tmp)
		return 0, fmt.Errorf("failed to write %s: %w", rel, err)
	}

	if err := MoveFile(tmp, dst); err != nil {
		_ = RemoveFile(tmp)
		return 0, err
	}
	return n, nil
}

// Exists reports whether a file is stored at rel.
func (m *MediaStore) Exists(rel string) bool {
	_, err := os.Stat(m.Abs(rel))
	return err == nil
}

// Remove deletes rel and its directory when that leaves it empty.
// Missing files are not an error.
func (m *MediaStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	path := m.Abs(rel)
	if err := RemoveFile(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return DeleteFolderIfEmpty(filepath.Dir(path))
}

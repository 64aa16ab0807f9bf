package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/socialhub/pkg/keygen"
)

// ErrForeignPath is returned for URLs that do not point into the upload directory
var ErrForeignPath = errors.New("path is not an uploaded file")

// LocalStorage keeps uploaded files in a single directory on disk and exposes
// them under a public URL prefix.
type LocalStorage struct {
	dir        string
	publicPath string
	now        func() time.Time
}

// NewLocalStorage creates the upload directory if needed
func NewLocalStorage(dir, publicPath string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	return &LocalStorage{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
		now:        time.Now,
	}, nil
}

// Dir returns the directory files are written to
func (s *LocalStorage) Dir() string {
	return s.dir
}

// PublicPath returns the URL prefix uploaded files are served under
func (s *LocalStorage) PublicPath() string {
	return s.publicPath
}

// Save writes r under a freshly generated name and returns its public URL.
// originalName only contributes its extension.
func (s *LocalStorage) Save(originalName string, r io.Reader) (string, error) {
	name, err := keygen.UploadFilename(originalName, s.now())
	if err != nil {
		return "", err
	}

	full := filepath.Join(s.dir, name)
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	return path.Join(s.publicPath, name), nil
}

// Delete removes the file behind a public URL. A file that is already gone
// is not an error.
func (s *LocalStorage) Delete(url string) error {
	full, err := s.resolve(url)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether the file behind a public URL is present on disk
func (s *LocalStorage) Exists(url string) bool {
	full, err := s.resolve(url)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// resolve maps a public URL to a path inside the upload directory. Only
// direct children of the directory are accepted.
func (s *LocalStorage) resolve(url string) (string, error) {
	rel, ok := strings.CutPrefix(url, s.publicPath+"/")
	if !ok || rel == "" || strings.ContainsAny(rel, `/\`) || rel == "." || rel == ".." {
		return "", ErrForeignPath
	}
	return filepath.Join(s.dir, rel), nil
}

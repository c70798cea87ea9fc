package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNoFile indicates the expected multipart file part was absent.
var ErrNoFile = errors.New("no file uploaded")

// Stager writes uploaded files to transient local storage before they are
// committed to the object store. Every successful Stage must be paired with
// exactly one Cleanup, regardless of what happens in between.
type Stager struct {
	Dir      string
	MaxBytes int64
}

// NewStager constructs a Stager writing into dir.
func NewStager(dir string, maxBytes int64) *Stager {
	if strings.TrimSpace(dir) == "" {
		dir = os.TempDir()
	}
	if maxBytes <= 0 {
		maxBytes = 512 << 20
	}
	return &Stager{Dir: dir, MaxBytes: maxBytes}
}

// Stage copies the named multipart file part to local disk and returns its
// path. The staged name keeps the upload's extension so the asset type can
// be derived later.
func (s *Stager) Stage(form *multipart.Form, field string) (string, error) {
	if form == nil || len(form.File[field]) == 0 {
		return "", ErrNoFile
	}
	header := form.File[field][0]

	if header.Size > s.MaxBytes {
		return "", fmt.Errorf("stage %s: file exceeds %d bytes", field, s.MaxBytes)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("stage %s: open upload: %w", field, err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("stage %s: create staging dir: %w", field, err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(s.Dir, uuid.NewString()+ext)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("stage %s: create staged file: %w", field, err)
	}

	if _, err := io.Copy(dst, io.LimitReader(src, s.MaxBytes)); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("stage %s: copy upload: %w", field, err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("stage %s: close staged file: %w", field, err)
	}

	return path, nil
}

// Cleanup removes a staged file. A missing file is not an error so cleanup
// can run unconditionally on every exit path.
func (s *Stager) Cleanup(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cleanup staged file: %w", err)
	}
	return nil
}

package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned before anything is written when the
// uploaded bytes are not one of the allowed image formats.
var ErrUnsupportedType = errors.New("unsupported image type")

// extByContentType enumerates the accepted formats.
var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Store persists at most one image file per car model. Filenames are
// generated server-side; callers never influence the on-disk path.
type Store interface {
	Save(carModelID int, r io.Reader) (string, error)
	Remove(filename string) error
}

// DirStore keeps image files in a single flat directory.
type DirStore struct {
	dir string
}

// NewDirStore creates the base directory if needed.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("NewDirStore: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

// Save sniffs the content type from the leading bytes, rejects anything
// but the allowed formats, and writes the file as <id>_<uuid><ext>.
func (s *DirStore) Save(carModelID int, r io.Reader) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("Save: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, ok := extByContentType[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	filename := fmt.Sprintf("%d_%s%s", carModelID, uuid.NewString(), ext)
	f, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("Save: %w", err)
	}
	if _, err := f.Write(head); err != nil {
		f.Close()
		return "", fmt.Errorf("Save: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("Save: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("Save: %w", err)
	}
	return filename, nil
}

// Remove deletes a previously saved file. The filename must be one this
// store produced; anything path-like is refused.
func (s *DirStore) Remove(filename string) error {
	if filename == "" || strings.ContainsAny(filename, `/\`) || filename != filepath.Base(filename) {
		return fmt.Errorf("Remove: invalid filename %q", filename)
	}
	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil {
		return fmt.Errorf("Remove: %w", err)
	}
	return nil
}

type FakeStore struct {
	SaveFn   func(carModelID int, r io.Reader) (string, error)
	RemoveFn func(filename string) error
}

func (f *FakeStore) Save(carModelID int, r io.Reader) (string, error) {
	if f.SaveFn != nil {
		return f.SaveFn(carModelID, r)
	}
	panic("unexpected Save")
}

func (f *FakeStore) Remove(filename string) error {
	if f.RemoveFn != nil {
		return f.RemoveFn(filename)
	}
	panic("unexpected Remove")
}

// Package upload stores user supplied images under generated names and
// serves them back by exact, sanitized name only.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidUpload = errors.New("invalid upload")
	ErrNotFound      = errors.New("upload not found")
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Store keeps uploads in a single flat directory.
type Store struct {
	root    string
	maxSize int64
}

// NewStore creates root if needed.
func NewStore(root string, maxSize int64) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads folder: %w", err)
	}
	return &Store{root: root, maxSize: maxSize}, nil
}

// Root returns the uploads directory.
func (s *Store) Root() string { return s.root }

// Allowed reports whether filename has an accepted image extension.
func Allowed(filename string) bool {
	return allowedExtensions[extension(filename)]
}

// extension returns the lower-cased extension of the last path element of
// the raw client name. Names that are only an extension have none.
func extension(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return strings.ToLower(ext)
}

// SafeName reduces filename to ASCII letters, digits, '_', '.' and '-',
// dropping path separators and leading or trailing dots.
func SafeName(filename string) string {
	filename = strings.NewReplacer("/", " ", "\\", " ").Replace(filename)
	filename = strings.Join(strings.Fields(filename), "_")
	filename = unsafeChars.ReplaceAllString(filename, "")
	return strings.Trim(filename, "._")
}

// Save validates the upload and writes it under a new random name, which it returns.
// The original name only contributes its lower-cased extension.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	if !Allowed(filename) {
		return "", fmt.Errorf("%w: %q is not an allowed image type", ErrInvalidUpload, filename)
	}
	ext := extension(filename)

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("%w: empty or unreadable file", ErrInvalidUpload)
	}
	head = head[:n]
	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		return "", fmt.Errorf("%w: file is not an image", ErrInvalidUpload)
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	body := io.MultiReader(bytes.NewReader(head), r)
	written, err := io.Copy(tmp, io.LimitReader(body, s.maxSize+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if written > s.maxSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidUpload, s.maxSize)
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	if err := os.Rename(tmp.Name(), filepath.Join(s.root, name)); err != nil {
		return "", fmt.Errorf("storing upload: %w", err)
	}
	return name, nil
}

// Open returns the stored file called name. Names that differ from their
// sanitized form, directories and missing files all yield ErrNotFound.
func (s *Store) Open(name string) (*os.File, os.FileInfo, error) {
	if name == "" || SafeName(name) != name {
		return nil, nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.root, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, ErrNotFound
	}
	return f, info, nil
}

// Remove deletes a stored upload; a missing file is not an error.
func (s *Store) Remove(name string) error {
	if name == "" || SafeName(name) != name {
		return ErrNotFound
	}
	err := os.Remove(filepath.Join(s.root, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

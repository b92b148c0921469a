package storage

import (
	"bytes"
	"errors"
	"fmt"
	"hellfire/internal/utils"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrInvalidName = errors.New("file name is empty after sanitizing")
	ErrTooLarge    = errors.New("file too large")
	ErrNotImage    = errors.New("file is not an image")
)

// sniffLen is how much of the upload is buffered for type detection.
const sniffLen = 3072

// Store keeps uploaded images in a single flat directory.
type Store struct {
	dir      string
	maxBytes int64
}

func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Path returns the on-disk location of a stored file.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// SaveImage writes r under the sanitized form of originalName and returns that
// name. The data goes to a temporary file first and is renamed into place only
// once fully written and closed, so a failed upload never replaces a file.
// An existing file with the same name is overwritten.
func (s *Store) SaveImage(originalName string, r io.Reader) (string, error) {
	name := utils.SecureFilename(originalName)
	if name == "" {
		return "", ErrInvalidName
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if mt := mimetype.Detect(head); !strings.HasPrefix(mt.String(), "image/") {
		return "", ErrNotImage
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-"+uuid.NewString()+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	src := io.MultiReader(bytes.NewReader(head), r)
	written, err := io.Copy(tmp, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	if written > s.maxBytes {
		return "", ErrTooLarge
	}

	if err := os.Rename(tmpName, s.Path(name)); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	committed = true
	return name, nil
}

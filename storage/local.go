package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Kind identifies which directory a payload belongs to.
type Kind string

const (
	KindAudio Kind = "audio"
	KindCover Kind = "cover"
)

// ErrUnknownKind is returned for a payload kind with no configured directory.
var ErrUnknownKind = errors.New("unknown payload kind")

// LocalStore writes uploaded payloads into one directory per kind.
type LocalStore struct {
	dirs  map[Kind]string
	names NameGenerator
}

// NewLocalStore creates a store writing audio to audioDir and covers to coverDir.
func NewLocalStore(audioDir, coverDir string) *LocalStore {
	return &LocalStore{
		dirs: map[Kind]string{
			KindAudio: audioDir,
			KindCover: coverDir,
		},
		names: DefaultNameGenerator,
	}
}

// WithNames replaces the file name generator.
func (s *LocalStore) WithNames(g NameGenerator) *LocalStore {
	s.names = g
	return s
}

// EnsureDirs creates the payload directories if they do not exist.
func (s *LocalStore) EnsureDirs() error {
	for _, kind := range []Kind{KindAudio, KindCover} {
		dir := s.dirs[kind]
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s directory %s: %w", kind, dir, err)
		}
	}
	return nil
}

// Dir returns the directory for kind.
func (s *LocalStore) Dir(kind Kind) (string, error) {
	dir, ok := s.dirs[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return dir, nil
}

// Path returns the on-disk path of a stored payload.
func (s *LocalStore) Path(kind Kind, name string) (string, error) {
	dir, err := s.Dir(kind)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// Save copies the uploaded file into the kind's directory under a generated name
// and returns that name.
func (s *LocalStore) Save(kind Kind, header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded %s: %w", kind, err)
	}
	defer src.Close()

	return s.SaveReader(kind, header.Filename, src)
}

// SaveReader stores r as a new payload named after originalName's extension.
func (s *LocalStore) SaveReader(kind Kind, originalName string, r io.Reader) (string, error) {
	name := s.names.Name(originalName)
	path, err := s.Path(kind, name)
	if err != nil {
		return "", err
	}

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s file: %w", kind, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to write %s file: %w", kind, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s file: %w", kind, err)
	}
	return name, nil
}

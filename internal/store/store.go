package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/jeanhaley32/treeicon/internal/apperr"
	"github.com/jeanhaley32/treeicon/internal/constants"
	"github.com/jeanhaley32/treeicon/internal/structure"
)

// Store persists configuration documents as one JSON file each inside Dir.
// It owns no file system side effects beyond those files and the active pointer.
type Store struct {
	Logger log.Logger
	FS     afero.Afero
	Dir    string
}

// New creates a store rooted at dir.
func New(logger log.Logger, fs afero.Afero, dir string) *Store {
	return &Store{
		Logger: logger,
		FS:     fs,
		Dir:    dir,
	}
}

// Path returns the file backing the named configuration.
func (s *Store) Path(name string) (string, error) {
	normalized, err := NormalizeName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, FileName(normalized)), nil
}

// EnsureDir creates the configuration directory if it doesn't exist.
func (s *Store) EnsureDir() error {
	if err := s.FS.MkdirAll(s.Dir, constants.DirPermissions); err != nil {
		return &apperr.IOError{Op: "create directory", Path: s.Dir, Err: err}
	}
	return nil
}

// List returns the names of saved configurations, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := s.FS.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, &apperr.IOError{Op: "list", Path: s.Dir, Err: err}
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), constants.ConfigExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), constants.ConfigExt))
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether the named configuration has a file.
func (s *Store) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	_, err = s.FS.Stat(path)
	return err == nil
}

// Load parses the named configuration.
func (s *Store) Load(name string) (*structure.Document, error) {
	debug := level.Debug(log.With(s.Logger, "method", "Load"))

	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	debug.Log("event", "config.read", "path", path)
	data, err := s.FS.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &apperr.NotFoundError{What: "configuration", Path: path}
		}
		return nil, &apperr.IOError{Op: "read", Path: path, Err: err}
	}

	doc, err := structure.Decode(data)
	if err != nil {
		return nil, &apperr.ParseError{Path: path, Err: err}
	}

	debug.Log("event", "config.loaded", "path", path, "folders", doc.Count())
	return doc, nil
}

// Save serializes doc and replaces the named configuration. The new content
// is written to a temporary file first so a failed save leaves the previous
// file intact.
func (s *Store) Save(doc *structure.Document, name string) error {
	debug := level.Debug(log.With(s.Logger, "method", "Save"))

	path, err := s.Path(name)
	if err != nil {
		return err
	}

	data, err := doc.Encode()
	if err != nil {
		return &apperr.IOError{Op: "encode", Path: path, Err: err}
	}

	if err := s.EnsureDir(); err != nil {
		return err
	}

	tmp, err := afero.TempFile(s.FS.Fs, s.Dir, ".save-*.tmp")
	if err != nil {
		return &apperr.IOError{Op: "create temp file", Path: s.Dir, Err: err}
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = s.FS.Remove(tmpName)
		return &apperr.IOError{Op: "write", Path: path, Err: writeErr}
	}

	// Temp files are created 0600.
	if err := s.FS.Chmod(tmpName, constants.FilePermissions); err != nil {
		_ = s.FS.Remove(tmpName)
		return &apperr.IOError{Op: "chmod", Path: tmpName, Err: err}
	}

	if err := s.FS.Rename(tmpName, path); err != nil {
		_ = s.FS.Remove(tmpName)
		return &apperr.IOError{Op: "replace", Path: path, Err: err}
	}

	debug.Log("event", "config.saved", "path", path, "bytes", len(data))
	return nil
}

// Create initializes a configuration holding one default folder and persists it.
// An existing configuration of the same name is never overwritten.
func (s *Store) Create(name, defaultFolder string) (*structure.Document, error) {
	normalized, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	if s.Exists(normalized) {
		return nil, errors.Errorf("configuration %q already exists", normalized)
	}

	doc := structure.Seed(defaultFolder)
	if err := s.Save(doc, normalized); err != nil {
		return nil, err
	}

	level.Info(s.Logger).Log("event", "config.created", "name", normalized)
	return doc, nil
}

// Delete removes the named configuration. The active pointer is cleared when
// it named this configuration.
func (s *Store) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}

	if err := s.FS.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return &apperr.NotFoundError{What: "configuration", Path: path}
		}
		return &apperr.IOError{Op: "delete", Path: path, Err: err}
	}

	active, err := s.Active()
	if err != nil {
		return err
	}
	normalized, _ := NormalizeName(name)
	if active == normalized {
		if err := s.ClearActive(); err != nil {
			return err
		}
	}

	level.Info(s.Logger).Log("event", "config.deleted", "name", normalized)
	return nil
}

func (s *Store) activePath() string {
	return filepath.Join(s.Dir, constants.ActiveFile)
}

// Active returns the name of the active configuration, or "" when none is set.
func (s *Store) Active() (string, error) {
	data, err := s.FS.ReadFile(s.activePath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", &apperr.IOError{Op: "read", Path: s.activePath(), Err: err}
	}
	return strings.TrimSpace(string(data)), nil
}

// SetActive records name as the active configuration.
func (s *Store) SetActive(name string) error {
	normalized, err := NormalizeName(name)
	if err != nil {
		return err
	}
	if err := s.EnsureDir(); err != nil {
		return err
	}
	if err := s.FS.WriteFile(s.activePath(), []byte(normalized+"\n"), constants.FilePermissions); err != nil {
		return &apperr.IOError{Op: "write", Path: s.activePath(), Err: err}
	}
	return nil
}

// ClearActive forgets the active configuration.
func (s *Store) ClearActive() error {
	if err := s.FS.Remove(s.activePath()); err != nil && !os.IsNotExist(err) {
		return &apperr.IOError{Op: "delete", Path: s.activePath(), Err: err}
	}
	return nil
}

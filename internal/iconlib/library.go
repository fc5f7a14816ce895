// Package iconlib lists the images available as folder icons and caches
// their previews for an editing session.
package iconlib

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/h2non/filetype"
	"github.com/spf13/afero"

	"github.com/jeanhaley32/treeicon/internal/apperr"
	"github.com/jeanhaley32/treeicon/internal/constants"
)

// Extensions are the file types offered as icon sources.
var Extensions = []string{".png", ".ico", ".jpg", ".jpeg", ".bmp", ".gif", ".webp"}

// sniffLen is enough of a file header for filetype to recognize images.
const sniffLen = 261

// Library is a directory of icon source images.
type Library struct {
	Logger log.Logger
	FS     afero.Afero
	Dir    string
}

// NewLibrary creates a library over dir.
func NewLibrary(logger log.Logger, fs afero.Afero, dir string) *Library {
	return &Library{Logger: logger, FS: fs, Dir: dir}
}

// Ensure creates the icon directory if it doesn't exist.
func (l *Library) Ensure() error {
	if err := l.FS.MkdirAll(l.Dir, constants.DirPermissions); err != nil {
		return &apperr.IOError{Op: "create directory", Path: l.Dir, Err: err}
	}
	return nil
}

// List returns the image file names in the library, sorted. Files with an
// image extension whose content is not an image are skipped.
func (l *Library) List() ([]string, error) {
	debug := level.Debug(log.With(l.Logger, "method", "List"))

	entries, err := l.FS.ReadDir(l.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, &apperr.IOError{Op: "list", Path: l.Dir, Err: err}
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !hasImageExtension(entry.Name()) {
			continue
		}
		ok, err := l.isImage(filepath.Join(l.Dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if !ok {
			debug.Log("event", "icon.skipped", "name", entry.Name())
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Ref returns the reference stored in a configuration for a library image,
// relative to base and always slash-separated.
func (l *Library) Ref(base, name string) (string, error) {
	path := filepath.Join(l.Dir, name)
	if base == "" {
		return filepath.ToSlash(path), nil
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path), nil
	}
	return filepath.ToSlash(rel), nil
}

func (l *Library) isImage(path string) (bool, error) {
	f, err := l.FS.Open(path)
	if err != nil {
		return false, &apperr.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, _ := f.Read(head)
	return filetype.IsImage(head[:n]), nil
}

func hasImageExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

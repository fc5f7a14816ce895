package materialize

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/jeanhaley32/treeicon/internal/apperr"
	"github.com/jeanhaley32/treeicon/internal/constants"
)

// MetadataContent returns desktop.ini pointing Explorer at iconName inside the folder.
func MetadataContent(iconName string) string {
	return constants.MetadataSection + "\r\n" +
		`IconResource=.\` + iconName + ",0\r\n"
}

// EncodeMetadata encodes content in the named legacy code page. Explorer
// reads desktop.ini as ANSI, so characters outside the code page are an error
// rather than being replaced.
func EncodeMetadata(content, encodingName string) ([]byte, error) {
	enc, err := htmlindex.Get(encodingName)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown encoding %q", encodingName)
	}
	out, err := enc.NewEncoder().String(content)
	if err != nil {
		return nil, errors.Wrapf(err, "encode desktop.ini as %s", encodingName)
	}
	return []byte(out), nil
}

// writeMetadata replaces the folder's desktop.ini. A previous file may be
// hidden and system, which blocks overwriting in place, so it is removed first.
func (m *Materializer) writeMetadata(dir, iconName string) error {
	path := filepath.Join(dir, constants.MetadataFile)

	data, err := EncodeMetadata(MetadataContent(iconName), m.Encoding)
	if err != nil {
		return &apperr.IOError{Op: "write", Path: path, Err: err}
	}

	if err := m.FS.Remove(path); err != nil && !os.IsNotExist(err) {
		return &apperr.IOError{Op: "replace", Path: path, Err: err}
	}
	if err := m.FS.WriteFile(path, data, constants.FilePermissions); err != nil {
		return &apperr.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

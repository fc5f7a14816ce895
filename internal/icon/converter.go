// Package icon converts source images into Windows ICO containers.
package icon

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/h2non/filetype"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	_ "golang.org/x/image/webp"

	"github.com/jeanhaley32/treeicon/internal/apperr"
	"github.com/jeanhaley32/treeicon/internal/constants"
)

// Converter turns images read from FS into ICO files written to FS.
type Converter struct {
	Logger log.Logger
	FS     afero.Afero
	Sizes  []int
}

// NewConverter creates a converter producing the default icon sizes.
func NewConverter(logger log.Logger, fs afero.Afero) *Converter {
	return &Converter{
		Logger: logger,
		FS:     fs,
		Sizes:  DefaultSizes,
	}
}

// IconName returns the file name the converted icon for source is written
// under: the source base name with its extension replaced by .ico. Both
// slash and backslash separate directories in source.
func IconName(source string) string {
	base := filepath.Base(filepath.FromSlash(strings.ReplaceAll(source, `\`, "/")))
	return strings.TrimSuffix(base, filepath.Ext(base)) + constants.IconExt
}

// Convert reads source and writes an ICO to dest. A source that already is
// an ICO is copied unchanged. A missing source is a NotFoundError, an
// undecodable one an IconConversionError.
func (c *Converter) Convert(source, dest string) error {
	debug := level.Debug(log.With(c.Logger, "method", "Convert"))

	data, err := c.FS.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return &apperr.NotFoundError{What: "icon source", Path: source}
		}
		return &apperr.IOError{Op: "read", Path: source, Err: err}
	}

	kind, _ := filetype.Match(data)
	debug.Log("event", "icon.sniffed", "source", source, "mime", kind.MIME.Value)

	if kind.Extension == "ico" {
		return c.write(dest, data)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return &apperr.IconConversionError{Source: source, Err: err}
	}

	var buf bytes.Buffer
	if err := EncodeICO(&buf, img, c.sizes()); err != nil {
		return &apperr.IconConversionError{Source: source, Err: err}
	}

	debug.Log("event", "icon.converted", "source", source, "dest", dest, "bytes", buf.Len())
	return c.write(dest, buf.Bytes())
}

func (c *Converter) sizes() []int {
	if len(c.Sizes) == 0 {
		return DefaultSizes
	}
	return c.Sizes
}

// write replaces dest. An existing icon may carry hidden, system or
// read-only attributes from an earlier run, so it is removed first.
func (c *Converter) write(dest string, data []byte) error {
	if err := c.FS.Remove(dest); err != nil && !os.IsNotExist(err) {
		return &apperr.IOError{Op: "replace", Path: dest, Err: errors.Wrap(err, "remove previous icon")}
	}
	if err := c.FS.WriteFile(dest, data, constants.FilePermissions); err != nil {
		return &apperr.IOError{Op: "write", Path: dest, Err: err}
	}
	return nil
}

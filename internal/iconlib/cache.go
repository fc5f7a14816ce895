package iconlib

import (
	"bytes"
	"image"
	"os"

	"github.com/h2non/filetype"
	"github.com/spf13/afero"

	// Decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/jeanhaley32/treeicon/internal/apperr"
)

// Preview describes an icon source without keeping its pixels.
type Preview struct {
	Path   string
	MIME   string
	Width  int
	Height int
	// Decodable is false for formats only passed through, such as ICO.
	Decodable bool
}

// Cache memoizes previews by resolved path. It belongs to one editing
// session and is reset when a different configuration is opened.
type Cache struct {
	FS      afero.Afero
	entries map[string]Preview
}

// NewCache creates an empty preview cache.
func NewCache(fs afero.Afero) *Cache {
	return &Cache{FS: fs, entries: map[string]Preview{}}
}

// Preview returns the preview for path, reading it on first use.
func (c *Cache) Preview(path string) (Preview, error) {
	if p, ok := c.entries[path]; ok {
		return p, nil
	}

	data, err := c.FS.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Preview{}, &apperr.NotFoundError{What: "icon source", Path: path}
		}
		return Preview{}, &apperr.IOError{Op: "read", Path: path, Err: err}
	}

	p := Preview{Path: path}
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		p.MIME = kind.MIME.Value
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		p.Width, p.Height, p.Decodable = cfg.Width, cfg.Height, true
	}

	c.entries[path] = p
	return p, nil
}

// Len returns the number of cached previews.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Reset drops every cached preview.
func (c *Cache) Reset() {
	c.entries = map[string]Preview{}
}

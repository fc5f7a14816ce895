package platform

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"

	"github.com/jeanhaley32/treeicon/internal/apperr"
)

// GNOME sets folder icons through GVfs metadata, which Nautilus and most
// GTK file managers honor. It has no cache to refresh.
type GNOME struct {
	Logger log.Logger
	Run    Runner
}

// NewGNOME creates a GNOME adapter that shells out to gio.
func NewGNOME(logger log.Logger) *GNOME {
	return &GNOME{Logger: logger, Run: ExecRunner}
}

func (g *GNOME) Name() string { return "gio" }

func (g *GNOME) ApplyFolderIcon(folderPath, iconFile string) error {
	abs, err := filepath.Abs(filepath.Join(folderPath, iconFile))
	if err != nil {
		return &apperr.AttributeError{Op: "resolve icon", Path: folderPath, Err: err}
	}
	uri := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	level.Debug(log.With(g.Logger, "method", "ApplyFolderIcon")).Log("event", "gio.set", "folder", folderPath, "icon", uri)
	if out, err := g.Run(ctx, "gio", "set", folderPath, "metadata::custom-icon", uri); err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			err = errors.Wrap(err, msg)
		}
		return &apperr.AttributeError{Op: "set custom icon", Path: folderPath, Err: err}
	}
	return nil
}

func (g *GNOME) InvalidateShellCaches() {}

package platform

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/jeanhaley32/treeicon/internal/apperr"
)

func TestDetect(t *testing.T) {
	os := Detect()
	if runtime.GOOS == "windows" && os != Windows {
		t.Errorf("Detect() = %q, want %q", os, Windows)
	}
	if runtime.GOOS == "linux" && os != Linux {
		t.Errorf("Detect() = %q, want %q", os, Linux)
	}
	if IsSupported() != (runtime.GOOS == "windows" || runtime.GOOS == "linux") {
		t.Errorf("IsSupported() = %v on %s", IsSupported(), runtime.GOOS)
	}
}

func TestNewDisabled(t *testing.T) {
	services := New(log.NewNopLogger(), false)
	require.Equal(t, "none", services.Name())
	require.NoError(t, services.ApplyFolderIcon("/any", "x.ico"))
	services.InvalidateShellCaches()
}

type call struct {
	name string
	args []string
}

func TestGNOMEApplyFolderIcon(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("gio paths are POSIX")
	}
	t.Run("sets custom icon metadata", func(t *testing.T) {
		req := require.New(t)
		var calls []call
		g := &GNOME{
			Logger: log.NewNopLogger(),
			Run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
				_, hasDeadline := ctx.Deadline()
				req.True(hasDeadline)
				calls = append(calls, call{name: name, args: args})
				return nil, nil
			},
		}

		req.NoError(g.ApplyFolderIcon("/tmp/out/Projects", "star.ico"))
		req.Len(calls, 1)
		req.Equal("gio", calls[0].name)
		req.Equal([]string{"set", "/tmp/out/Projects", "metadata::custom-icon", "file:///tmp/out/Projects/star.ico"}, calls[0].args)
	})

	t.Run("failure is an attribute error", func(t *testing.T) {
		req := require.New(t)
		g := &GNOME{
			Logger: log.NewNopLogger(),
			Run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
				return []byte("gio: Setting attribute not supported\n"), errors.New("exit status 1")
			},
		}

		err := g.ApplyFolderIcon("/tmp/out/Projects", "star.ico")
		var attrErr *apperr.AttributeError
		req.True(errors.As(err, &attrErr), "got %T", err)
		req.Equal("/tmp/out/Projects", attrErr.Path)
		req.True(strings.Contains(err.Error(), "not supported"))
	})
}

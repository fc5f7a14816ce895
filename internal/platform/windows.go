//go:build windows

package platform

import (
	"context"
	"path/filepath"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sys/windows"

	"github.com/jeanhaley32/treeicon/internal/apperr"
	"github.com/jeanhaley32/treeicon/internal/constants"
)

const (
	shcneAssocChanged = 0x08000000
	shcnfIDList       = 0x0000
)

var procSHChangeNotify = windows.NewLazySystemDLL("shell32.dll").NewProc("SHChangeNotify")

// Explorer customizes folders through desktop.ini. The metadata file and the
// icon must be hidden system files and the folder must carry the read-only
// attribute before Explorer reads desktop.ini.
type Explorer struct {
	Logger log.Logger
	Run    Runner
}

func native(logger log.Logger) Services {
	return &Explorer{Logger: logger, Run: ExecRunner}
}

func (e *Explorer) Name() string { return "explorer" }

func (e *Explorer) ApplyFolderIcon(folderPath, iconFile string) error {
	var result *multierror.Error
	hiddenSystem := uint32(windows.FILE_ATTRIBUTE_HIDDEN | windows.FILE_ATTRIBUTE_SYSTEM)

	for _, name := range []string{constants.MetadataFile, iconFile} {
		path := filepath.Join(folderPath, name)
		if err := addAttributes(path, hiddenSystem); err != nil {
			result = multierror.Append(result, &apperr.AttributeError{Op: "set hidden+system", Path: path, Err: err})
		}
	}
	if err := addAttributes(folderPath, windows.FILE_ATTRIBUTE_READONLY); err != nil {
		result = multierror.Append(result, &apperr.AttributeError{Op: "set read-only", Path: folderPath, Err: err})
	}
	return result.ErrorOrNil()
}

func (e *Explorer) InvalidateShellCaches() {
	warn := level.Warn(log.With(e.Logger, "method", "InvalidateShellCaches"))

	if err := procSHChangeNotify.Find(); err != nil {
		warn.Log("event", "shell.notify", "err", err)
	} else {
		procSHChangeNotify.Call(shcneAssocChanged, shcnfIDList, 0, 0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	// -show rebuilds the icon cache on Windows 10 and later, older releases use -ClearIconCache.
	if _, err := e.Run(ctx, "ie4uinit.exe", "-show"); err != nil {
		if _, err := e.Run(ctx, "ie4uinit.exe", "-ClearIconCache"); err != nil {
			warn.Log("event", "shell.icon_cache", "err", err)
		}
	}
}

func addAttributes(path string, attrs uint32) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	current, err := windows.GetFileAttributes(p)
	if err != nil {
		return err
	}
	return windows.SetFileAttributes(p, current|attrs)
}

// Package materialize turns a structure document into folders on disk.
//
// A run walks the tree in preorder. For each folder it creates the
// directory, converts the folder's icon into it, writes desktop.ini and asks
// the platform to mark the files. A failure is recorded against the folder
// and the walk continues; only a folder that cannot be created has its
// subtree skipped. When the walk is done the shell caches are refreshed once.
package materialize

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/jeanhaley32/treeicon/internal/apperr"
	"github.com/jeanhaley32/treeicon/internal/constants"
	"github.com/jeanhaley32/treeicon/internal/icon"
	"github.com/jeanhaley32/treeicon/internal/platform"
	"github.com/jeanhaley32/treeicon/internal/structure"
)

// Materializer creates folder trees. The zero value is not usable; use New.
type Materializer struct {
	Logger    log.Logger
	FS        afero.Afero
	Platform  platform.Services
	Converter *icon.Converter
	// Encoding is the legacy code page desktop.ini is written in, by WHATWG name.
	Encoding string
	// IconBase resolves relative icon references. Empty means the run's base directory.
	IconBase string
	// DryRun reports what would be created without touching the disk.
	DryRun bool
}

// New creates a materializer writing desktop.ini in the default code page.
func New(logger log.Logger, fs afero.Afero, services platform.Services) *Materializer {
	if services == nil {
		services = platform.Noop{}
	}
	return &Materializer{
		Logger:    logger,
		FS:        fs,
		Platform:  services,
		Converter: icon.NewConverter(logger, fs),
		Encoding:  constants.DefaultMetadataEncoding,
	}
}

// Run materializes doc below base. The document passed in is authoritative;
// nothing is re-read from the configuration store.
func (m *Materializer) Run(doc *structure.Document, base string) *Report {
	debug := level.Debug(log.With(m.Logger, "method", "Run"))
	debug.Log("event", "materialize.start", "base", base, "folders", doc.Count(), "dry_run", m.DryRun)

	report := &Report{Base: base, DryRun: m.DryRun}
	_ = doc.Walk(func(p structure.Path, n *structure.Node) error {
		return m.folder(report, base, p, n)
	})

	if !m.DryRun {
		m.Platform.InvalidateShellCaches()
	}

	level.Info(m.Logger).Log(
		"event", "materialize.done",
		"base", base,
		"created", len(report.Created),
		"existing", len(report.Existing),
		"iconed", len(report.Iconed),
		"failed", len(report.Failures),
		"warnings", len(report.Warnings),
	)
	return report
}

func (m *Materializer) folder(report *Report, base string, p structure.Path, n *structure.Node) error {
	dir := filepath.Join(append([]string{base}, p...)...)
	fail := func(stage Stage, err error) {
		level.Error(m.Logger).Log("event", "materialize.failed", "path", p.String(), "stage", stage, "err", err)
		report.Failures = append(report.Failures, Failure{Path: p, Dir: dir, Stage: stage, Err: err})
	}

	if n.Name == "." || n.Name == ".." || strings.ContainsAny(n.Name, `/\`) {
		fail(StageFolder, errors.Errorf("folder name %q is not a single path element", n.Name))
		return structure.SkipChildren
	}

	created, err := m.ensureDir(dir)
	if err != nil {
		fail(StageFolder, err)
		return structure.SkipChildren
	}
	if created {
		report.Created = append(report.Created, dir)
	} else {
		report.Existing = append(report.Existing, dir)
	}

	if n.Icon == "" {
		return nil
	}

	source := m.resolveIcon(base, n.Icon)
	if m.DryRun {
		if _, err := m.FS.Stat(source); err != nil {
			fail(StageIcon, &apperr.NotFoundError{What: "icon source", Path: source})
		}
		return nil
	}

	iconName := icon.IconName(source)
	iconPath := filepath.Join(dir, iconName)
	if err := m.Converter.Convert(source, iconPath); err != nil {
		fail(StageIcon, err)
		return nil
	}

	if err := m.writeMetadata(dir, iconName); err != nil {
		// An icon without desktop.ini is a stray visible file.
		if rmErr := m.FS.Remove(iconPath); rmErr != nil && !os.IsNotExist(rmErr) {
			err = multierror.Append(err, &apperr.IOError{Op: "delete", Path: iconPath, Err: rmErr})
		}
		fail(StageMetadata, err)
		return nil
	}

	if err := m.Platform.ApplyFolderIcon(dir, iconName); err != nil {
		level.Warn(m.Logger).Log("event", "materialize.attributes", "path", p.String(), "err", err)
		report.Warnings = append(report.Warnings, err)
	}

	report.Iconed = append(report.Iconed, dir)
	return nil
}

// ensureDir creates dir and its parents, reporting whether dir is new.
func (m *Materializer) ensureDir(dir string) (bool, error) {
	info, err := m.FS.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return false, nil
	case err == nil:
		return false, &apperr.IOError{Op: "create directory", Path: dir, Err: errors.New("a file with that name exists")}
	case !os.IsNotExist(err):
		return false, &apperr.IOError{Op: "stat", Path: dir, Err: err}
	}

	if m.DryRun {
		return true, nil
	}
	if err := m.FS.MkdirAll(dir, constants.DirPermissions); err != nil {
		return false, &apperr.IOError{Op: "create directory", Path: dir, Err: err}
	}
	return true, nil
}

func (m *Materializer) resolveIcon(base, ref string) string {
	// References saved on Windows use backslashes.
	ref = filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/"))
	if filepath.IsAbs(ref) {
		return ref
	}
	iconBase := m.IconBase
	if iconBase == "" {
		iconBase = base
	}
	return filepath.Join(iconBase, ref)
}

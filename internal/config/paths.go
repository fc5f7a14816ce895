package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/jeanhaley32/treeicon/internal/constants"
)

// PathResolver handles configuration directory resolution with priority rules.
type PathResolver struct {
	fs      afero.Fs
	homeDir string
}

// NewPathResolver creates a new PathResolver that checks directories on fs.
func NewPathResolver(fs afero.Fs) (*PathResolver, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return &PathResolver{fs: fs, homeDir: homeDir}, nil
}

// GetAppDir returns the per-user application directory.
// Returns: ~/.treeicon
func (p *PathResolver) GetAppDir() string {
	return filepath.Join(p.homeDir, constants.AppDir)
}

// GetGlobalConfigDir returns the global configuration directory.
// Returns: ~/.treeicon/configs
func (p *PathResolver) GetGlobalConfigDir() string {
	return filepath.Join(p.GetAppDir(), constants.ConfigsSubdir)
}

// GetLocalConfigDir returns the project-local configuration directory.
// Returns: {dir}/.treeicon
func (p *PathResolver) GetLocalConfigDir(dir string) string {
	return filepath.Join(dir, constants.AppDir)
}

// ResolveConfigDir applies the resolution priority rules.
// Priority:
// 1. Explicit directory (if provided)
// 2. Local directory ({cwd}/.treeicon) - if it exists
// 3. Global directory (~/.treeicon/configs) - default
//
// Returns the resolved directory and whether it exists.
func (p *PathResolver) ResolveConfigDir(explicitDir, cwd string) (dir string, exists bool) {
	if explicitDir != "" {
		return explicitDir, p.isDir(explicitDir)
	}

	localDir := p.GetLocalConfigDir(cwd)
	if p.isDir(localDir) {
		return localDir, true
	}

	globalDir := p.GetGlobalConfigDir()
	return globalDir, p.isDir(globalDir)
}

func (p *PathResolver) isDir(path string) bool {
	ok, err := afero.DirExists(p.fs, path)
	return err == nil && ok
}

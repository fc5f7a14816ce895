// Package platform applies folder icons through the host shell.
//
// Every call is best effort: a failure is reported as *apperr.AttributeError
// and callers log it rather than abort.
package platform

// Services handles OS-specific folder customization.
type Services interface {
	// ApplyFolderIcon marks the icon file and the folder metadata file inside
	// folderPath so the shell picks them up, and flags the folder as customized.
	// iconFile is relative to folderPath.
	ApplyFolderIcon(folderPath, iconFile string) error

	// InvalidateShellCaches asks the shell to drop cached folder icons.
	// It never fails; problems are logged.
	InvalidateShellCaches()

	// Name identifies the adapter in logs and reports.
	Name() string
}

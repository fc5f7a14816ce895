package platform

// Noop is a Services implementation that does nothing.
type Noop struct{}

func (Noop) ApplyFolderIcon(folderPath, iconFile string) error { return nil }

func (Noop) InvalidateShellCaches() {}

func (Noop) Name() string { return "none" }

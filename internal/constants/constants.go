package constants

import "os"

// Structure document constants
const (
	// FoldersKey is the fixed top-level key of a configuration document.
	FoldersKey = "folders"

	// IconKey is the reserved key holding a folder's icon reference.
	IconKey = "_icon"

	// ReservedPrefix marks metadata keys. A key with this prefix is never a folder name.
	ReservedPrefix = "_"

	// ConfigExt is the file extension of saved configurations.
	ConfigExt = ".json"

	// DefaultFolderName seeds every new configuration.
	DefaultFolderName = "New Folder"
)

// Folder customization constants
const (
	// MetadataFile is the folder-customization file written into each iconed folder.
	MetadataFile = "desktop.ini"

	// MetadataSection is the section header the shell reads the icon from.
	MetadataSection = "[.ShellClassInfo]"

	// IconExt is the extension of converted icon files.
	IconExt = ".ico"

	// DefaultMetadataEncoding is the legacy code page used for MetadataFile.
	DefaultMetadataEncoding = "windows-1252"
)

// Location constants
const (
	// AppDir is the per-user (and per-project, when local) application directory.
	AppDir = ".treeicon"

	// ConfigsSubdir holds saved configurations under the global AppDir.
	ConfigsSubdir = "configs"

	// ActiveFile records the active configuration inside a configuration directory.
	ActiveFile = ".active"

	// DefaultIconDir is the icon library directory, relative to the configuration directory.
	DefaultIconDir = "icons"

	// SettingsName is the settings file base name looked up by viper.
	SettingsName = "settings"

	// EnvPrefix prefixes environment variables that override settings.
	EnvPrefix = "TREEICON"
)

// File permissions
const (
	// DirPermissions is the default permission mode for directories.
	DirPermissions os.FileMode = 0755

	// FilePermissions is the default permission mode for written files.
	FilePermissions os.FileMode = 0644
)

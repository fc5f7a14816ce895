package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/jeanhaley32/treeicon/internal/constants"
)

// Settings keys, shared by flags, environment variables and the settings file.
const (
	KeyConfigDir        = "config-dir"
	KeyIconDir          = "icon-dir"
	KeyOutputDir        = "out"
	KeyIconBase         = "icon-base"
	KeyLogLevel         = "log-level"
	KeyLogFormat        = "log-format"
	KeyMetadataEncoding = "ini-encoding"
	KeyDefaultFolder    = "default-folder"
	KeyShell            = "shell"
)

// Keys lists every settings key, for binding command-line flags.
var Keys = []string{
	KeyConfigDir,
	KeyIconDir,
	KeyOutputDir,
	KeyIconBase,
	KeyLogLevel,
	KeyLogFormat,
	KeyMetadataEncoding,
	KeyDefaultFolder,
	KeyShell,
}

// Settings holds the resolved runtime configuration.
type Settings struct {
	// ConfigDir is an explicit configuration directory; empty means resolve local or global.
	ConfigDir string
	IconDir   string
	OutputDir string
	// IconBase is where icon references are resolved; empty means the configuration directory.
	IconBase         string
	LogLevel         string
	LogFormat        string
	MetadataEncoding string
	DefaultFolder    string
	// Shell enables platform shell integration (file attributes, cache refresh).
	Shell bool
}

// New returns a viper instance with defaults and environment overrides applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyIconDir, constants.DefaultIconDir)
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "logfmt")
	v.SetDefault(KeyMetadataEncoding, constants.DefaultMetadataEncoding)
	v.SetDefault(KeyDefaultFolder, constants.DefaultFolderName)
	v.SetDefault(KeyShell, true)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile loads an optional settings file. An explicit path must exist;
// otherwise settings.{yaml,json,toml} is looked up in searchDirs.
func ReadFile(v *viper.Viper, explicit string, searchDirs ...string) error {
	if explicit != "" {
		v.SetConfigFile(explicit)
		return v.ReadInConfig()
	}
	v.SetConfigName(constants.SettingsName)
	for _, dir := range searchDirs {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}
	return nil
}

// Load reads Settings out of v.
func Load(v *viper.Viper) Settings {
	return Settings{
		ConfigDir:        v.GetString(KeyConfigDir),
		IconDir:          v.GetString(KeyIconDir),
		OutputDir:        v.GetString(KeyOutputDir),
		IconBase:         v.GetString(KeyIconBase),
		LogLevel:         v.GetString(KeyLogLevel),
		LogFormat:        v.GetString(KeyLogFormat),
		MetadataEncoding: v.GetString(KeyMetadataEncoding),
		DefaultFolder:    v.GetString(KeyDefaultFolder),
		Shell:            v.GetBool(KeyShell),
	}
}

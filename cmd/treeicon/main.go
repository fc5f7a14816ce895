package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-kit/kit/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeanhaley32/treeicon/internal/config"
	"github.com/jeanhaley32/treeicon/internal/iconlib"
	"github.com/jeanhaley32/treeicon/internal/logger"
	"github.com/jeanhaley32/treeicon/internal/platform"
	"github.com/jeanhaley32/treeicon/internal/session"
	"github.com/jeanhaley32/treeicon/internal/store"
	"github.com/jeanhaley32/treeicon/internal/terminal"
)

var version = "0.1.0"

// cli carries what commands share: settings, streams and the file system.
// Tests swap the streams and the file system.
type cli struct {
	v        *viper.Viper
	fs       afero.Fs
	out      io.Writer
	errOut   io.Writer
	prompter *terminal.Prompter
}

// app is everything a command needs once settings are resolved.
type app struct {
	settings  config.Settings
	logger    log.Logger
	fs        afero.Afero
	configDir string
	store     *store.Store
	session   *session.Session
	library   *iconlib.Library
	prompter  *terminal.Prompter
	out       io.Writer
	errOut    io.Writer
}

func main() {
	c := &cli{
		v:        config.New(),
		fs:       afero.NewOsFs(),
		out:      os.Stdout,
		errOut:   os.Stderr,
		prompter: terminal.Stdio(),
	}

	if err := c.newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (c *cli) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "treeicon",
		Short:         "Folder trees with custom icons",
		Long:          "Define folder trees with per-folder icons in named JSON configurations and create them on disk.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(c.out)
	rootCmd.SetErr(c.errOut)

	rootCmd.PersistentFlags().String(config.KeyConfigDir, "", "Configuration directory (default ./.treeicon if present, else ~/.treeicon/configs)")
	rootCmd.PersistentFlags().String("config", "", "Settings file (default ~/.treeicon/settings.yaml)")
	rootCmd.PersistentFlags().String(config.KeyLogLevel, "warn", "Log level: debug, info, warn, error, off")
	rootCmd.PersistentFlags().String(config.KeyLogFormat, "logfmt", "Log format: logfmt or json")

	rootCmd.AddCommand(
		c.newListCmd(),
		c.newNewCmd(),
		c.newUseCmd(),
		c.newDeleteCmd(),
		c.newShowCmd(),
		c.newAddCmd(),
		c.newRmCmd(),
		c.newIconCmd(),
		c.newIconsCmd(),
		c.newMaterializeCmd(),
		c.newStatusCmd(),
		c.newVersionCmd(),
	)
	return rootCmd
}

// newApp resolves settings for cmd and wires the components.
// Flags set on the command line win over the environment and the settings file.
func (c *cli) newApp(cmd *cobra.Command) (*app, error) {
	for _, key := range config.Keys {
		if f := cmd.Flags().Lookup(key); f != nil {
			if err := c.v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", key, err)
			}
		}
	}

	pathResolver, err := config.NewPathResolver(c.fs)
	if err != nil {
		return nil, fmt.Errorf("failed to create path resolver: %w", err)
	}

	settingsFile, _ := cmd.Flags().GetString("config")
	c.v.SetFs(c.fs)
	if err := config.ReadFile(c.v, settingsFile, pathResolver.GetAppDir()); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	settings := config.Load(c.v)

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	configDir, _ := pathResolver.ResolveConfigDir(settings.ConfigDir, cwd)

	a := &app{
		settings:  settings,
		logger:    logger.New(c.errOut, settings.LogFormat, settings.LogLevel),
		fs:        afero.Afero{Fs: c.fs},
		configDir: configDir,
		prompter:  c.prompter,
		out:       c.out,
		errOut:    c.errOut,
	}
	a.store = store.New(a.logger, a.fs, configDir)
	a.session = session.New(a.logger, a.store, iconlib.NewCache(a.fs))
	a.library = iconlib.NewLibrary(a.logger, a.fs, a.resolve(settings.IconDir))
	return a, nil
}

// resolve makes a settings path absolute against the configuration directory.
func (a *app) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.configDir, path)
}

// openActive opens the active configuration, explaining how to pick one when
// none is recorded.
func (a *app) openActive() error {
	if err := a.session.OpenActive(); err != nil {
		if err == session.ErrNoDocument {
			return fmt.Errorf("no active configuration; create one with 'treeicon new' or select one with 'treeicon use'")
		}
		return err
	}
	return nil
}

func (c *cli) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.out, "treeicon version %s\n", version)
			fmt.Fprintf(c.out, "Platform: %s\n", platform.Detect())
			if !platform.IsSupported() {
				fmt.Fprintln(c.out, "Folder icons: not supported on this platform, folders are created without shell integration")
			}
		},
	}
}

package main

import (
	"fmt"
	"path/filepath"

	"github.com/gosuri/uitable"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/jeanhaley32/treeicon/internal/config"
	"github.com/jeanhaley32/treeicon/internal/materialize"
	"github.com/jeanhaley32/treeicon/internal/platform"
	"github.com/jeanhaley32/treeicon/internal/state"
)

func (c *cli) newMaterializeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materialize",
		Short: "Create the active configuration's folders on disk",
		Long: "Create every folder of the active configuration below the output directory, " +
			"convert folder icons and register them with the shell. " +
			"Folders that fail are reported and the rest are still created.",
		Args: cobra.NoArgs,
		RunE: c.runMaterialize,
	}

	cmd.Flags().StringP(config.KeyOutputDir, "o", ".", "Directory to create the folders in")
	cmd.Flags().String(config.KeyIconBase, "", "Directory icon references are relative to (default: the configuration directory)")
	cmd.Flags().Bool("dry-run", false, "Show what would be created without touching the disk")
	cmd.Flags().Bool("open", false, "Open the output directory in the file manager when done")
	cmd.Flags().Bool("no-shell", false, "Skip file attributes and shell cache refresh")

	return cmd
}

func (c *cli) runMaterialize(cmd *cobra.Command, args []string) error {
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("invalid dry-run flag: %w", err)
	}
	openDir, err := cmd.Flags().GetBool("open")
	if err != nil {
		return fmt.Errorf("invalid open flag: %w", err)
	}
	noShell, err := cmd.Flags().GetBool("no-shell")
	if err != nil {
		return fmt.Errorf("invalid no-shell flag: %w", err)
	}

	a, err := c.newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.openActive(); err != nil {
		return err
	}

	outputDir, err := filepath.Abs(a.settings.OutputDir)
	if err != nil {
		return fmt.Errorf("invalid output directory %s: %w", a.settings.OutputDir, err)
	}
	iconBase := a.configDir
	if a.settings.IconBase != "" {
		if iconBase, err = filepath.Abs(a.settings.IconBase); err != nil {
			return fmt.Errorf("invalid icon base %s: %w", a.settings.IconBase, err)
		}
	}

	services := platform.New(a.logger, a.settings.Shell && !noShell && !dryRun)
	m := materialize.New(a.logger, a.fs, services)
	m.Encoding = a.settings.MetadataEncoding
	m.IconBase = iconBase
	m.DryRun = dryRun

	report := m.Run(a.session.Document(), outputDir)
	printReport(a, report)

	if openDir && !dryRun {
		if err := open.Start(outputDir); err != nil {
			fmt.Fprintf(a.errOut, "Warning: could not open %s: %v\n", outputDir, err)
		}
	}

	if len(report.Failures) > 0 {
		return fmt.Errorf("%d of %d folders failed", len(report.Failures), a.session.Document().Count())
	}
	return nil
}

func printReport(a *app, report *materialize.Report) {
	verb := "Created"
	if report.DryRun {
		verb = "Would create"
	}

	summary := uitable.New()
	summary.AddRow("Output:", report.Base)
	summary.AddRow(verb+":", len(report.Created))
	summary.AddRow("Already present:", len(report.Existing))
	if !report.DryRun {
		summary.AddRow("With icon:", len(report.Iconed))
	}
	fmt.Fprintln(a.out, summary)

	if report.DryRun && len(report.Created) > 0 {
		fmt.Fprintln(a.out)
		for _, dir := range report.Created {
			fmt.Fprintf(a.out, "  %s\n", dir)
		}
	}

	for _, w := range report.Warnings {
		fmt.Fprintf(a.errOut, "Warning: %v\n", w)
	}

	if len(report.Failures) > 0 {
		failures := uitable.New()
		failures.Wrap = true
		failures.MaxColWidth = 80
		failures.AddRow("FOLDER", "STAGE", "ERROR")
		for _, f := range report.Failures {
			failures.AddRow(f.Path.String(), f.Stage, f.Err)
		}
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, failures)
	}
}

func (c *cli) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Compare the active configuration with the folders on disk",
		Args:  cobra.NoArgs,
		RunE:  c.runStatus,
	}

	cmd.Flags().StringP(config.KeyOutputDir, "o", ".", "Directory the folders were created in")

	return cmd
}

func (c *cli) runStatus(cmd *cobra.Command, args []string) error {
	a, err := c.newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.openActive(); err != nil {
		return err
	}

	outputDir, err := filepath.Abs(a.settings.OutputDir)
	if err != nil {
		return fmt.Errorf("invalid output directory %s: %w", a.settings.OutputDir, err)
	}

	detector := state.NewDetector(a.fs, outputDir, a.settings.MetadataEncoding)
	states := detector.Detect(a.session.Document())

	fmt.Fprintf(a.out, "Configuration: %s\n", a.session.Name())
	fmt.Fprintf(a.out, "Output:        %s\n\n", outputDir)

	complete := 0
	table := uitable.New()
	table.AddRow("FOLDER", "EXISTS", "ICON", "DESKTOP.INI")
	for _, s := range states {
		if s.Complete() {
			complete++
		}
		table.AddRow(s.Path.String(), yesNo(s.Exists), iconStatus(s), metadataStatus(s))
	}
	fmt.Fprintln(a.out, table)
	fmt.Fprintf(a.out, "\n%d of %d folders up to date\n", complete, len(states))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func iconStatus(s state.FolderState) string {
	switch {
	case !s.IconConfigured:
		return "-"
	case s.IconPresent:
		return "ok"
	default:
		return "missing"
	}
}

func metadataStatus(s state.FolderState) string {
	switch {
	case !s.IconConfigured:
		return "-"
	case s.MetadataCurrent:
		return "ok"
	case s.MetadataPresent:
		return "stale"
	default:
		return "missing"
	}
}

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/jeanhaley32/treeicon/internal/apperr"
	"github.com/jeanhaley32/treeicon/internal/structure"
	"github.com/jeanhaley32/treeicon/internal/terminal"
)

func (c *cli) newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active configuration",
		Args:  cobra.NoArgs,
		RunE:  c.runShow,
	}

	cmd.Flags().StringP("format", "f", "tree", "Output format: tree, json, yaml or schema")

	return cmd
}

func (c *cli) runShow(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("invalid format flag: %w", err)
	}

	if format == "schema" {
		fmt.Fprint(c.out, structure.Schema())
		return nil
	}

	a, err := c.newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.openActive(); err != nil {
		return err
	}
	doc := a.session.Document()

	switch format {
	case "tree":
		fmt.Fprintln(a.out, a.session.Name())
		printTree(a.out, doc.Root, "")
	case "json":
		data, err := doc.Encode()
		if err != nil {
			return err
		}
		a.out.Write(data)
	case "yaml":
		data, err := doc.YAML()
		if err != nil {
			return err
		}
		a.out.Write(data)
	default:
		return fmt.Errorf("unknown format %q (expected tree, json, yaml or schema)", format)
	}
	return nil
}

func printTree(w io.Writer, n *structure.Node, prefix string) {
	children := n.Children()
	for i, child := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}
		line := prefix + branch + child.Name
		if child.Icon != "" {
			line += "  [" + child.Icon + "]"
		}
		fmt.Fprintln(w, line)
		printTree(w, child, prefix+next)
	}
}

func (c *cli) newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <parent> [name]",
		Short: "Add a folder",
		Long:  "Add a folder under <parent>, a slash-separated folder path where / is the top level. Prompts for the name when it is not given.",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  c.runAdd,
	}
}

func (c *cli) runAdd(cmd *cobra.Command, args []string) error {
	a, err := c.newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.openActive(); err != nil {
		return err
	}

	var name string
	if len(args) == 2 {
		name = args[1]
	} else if name, err = a.prompter.String("Folder name", a.settings.DefaultFolder); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	// Paths on the command line are split on "/", so such a folder could never be addressed again.
	if strings.Contains(name, "/") {
		return fmt.Errorf("folder name %q must not contain '/'", name)
	}

	p, err := a.session.AddChild(structure.ParsePath(args[0]), name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s\n", p)
	return nil
}

func (c *cli) newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <path>",
		Aliases: []string{"remove"},
		Short:   "Remove a folder and everything below it",
		Args:    cobra.ExactArgs(1),
		RunE:    c.runRm,
	}
}

func (c *cli) runRm(cmd *cobra.Command, args []string) error {
	a, err := c.newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.openActive(); err != nil {
		return err
	}

	p := structure.ParsePath(args[0])
	if err := a.session.Remove(p); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed %s\n", p)
	return nil
}

func (c *cli) newIconCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icon",
		Short: "Set or clear a folder's icon",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <path> [image]",
			Short: "Set a folder's icon",
			Long: "Set a folder's icon to an image from the icon library or any image file. " +
				"Without an image, pick one from the icon library.",
			Args: cobra.RangeArgs(1, 2),
			RunE: c.runIconSet,
		},
		&cobra.Command{
			Use:   "clear <path>",
			Short: "Remove a folder's icon",
			Args:  cobra.ExactArgs(1),
			RunE:  c.runIconClear,
		},
	)
	return cmd
}

func (c *cli) runIconSet(cmd *cobra.Command, args []string) error {
	a, err := c.newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.openActive(); err != nil {
		return err
	}
	p := structure.ParsePath(args[0])

	var ref string
	if len(args) == 2 {
		ref, err = a.iconRef(args[1])
	} else {
		ref, err = a.pickIcon()
	}
	if err != nil {
		return err
	}

	if err := a.session.SetIcon(p, ref); err != nil {
		return err
	}
	if ref == "" {
		fmt.Fprintf(a.out, "Cleared icon of %s\n", p)
	} else {
		fmt.Fprintf(a.out, "Icon of %s: %s\n", p, ref)
	}
	return nil
}

func (c *cli) runIconClear(cmd *cobra.Command, args []string) error {
	a, err := c.newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.openActive(); err != nil {
		return err
	}

	p := structure.ParsePath(args[0])
	if err := a.session.SetIcon(p, ""); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Cleared icon of %s\n", p)
	return nil
}

// iconRef turns an image argument into the reference stored in the
// configuration. Library names win over paths relative to the working
// directory; references are relative to the configuration directory.
func (a *app) iconRef(image string) (string, error) {
	if ok, _ := a.fs.Exists(filepath.Join(a.library.Dir, image)); ok {
		return a.library.Ref(a.configDir, image)
	}

	abs, err := filepath.Abs(image)
	if err != nil {
		return "", fmt.Errorf("invalid image path %s: %w", image, err)
	}
	if ok, _ := a.fs.Exists(abs); !ok {
		return "", &apperr.NotFoundError{What: "icon source", Path: abs}
	}
	if rel, err := filepath.Rel(a.configDir, abs); err == nil {
		return filepath.ToSlash(rel), nil
	}
	return filepath.ToSlash(abs), nil
}

// pickIcon offers the icon library with a leading "no icon" choice.
func (a *app) pickIcon() (string, error) {
	if !a.prompter.Interactive() {
		return "", fmt.Errorf("no image given: %w", terminal.ErrNotInteractive)
	}

	names, err := a.library.List()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		fmt.Fprintf(a.errOut, "Warning: no images in %s\n", a.library.Dir)
	}

	options := append([]string{"(no icon)"}, names...)
	choice, err := a.prompter.Choice("Select an icon:", options, 0)
	if err != nil {
		return "", err
	}
	if choice == 0 {
		return "", nil
	}
	return a.library.Ref(a.configDir, names[choice-1])
}

func (c *cli) newIconsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "icons",
		Short: "List the icon library",
		Args:  cobra.NoArgs,
		RunE:  c.runIcons,
	}
}

func (c *cli) runIcons(cmd *cobra.Command, args []string) error {
	a, err := c.newApp(cmd)
	if err != nil {
		return err
	}

	names, err := a.library.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(a.out, "No images in %s\n", a.library.Dir)
		return nil
	}

	table := uitable.New()
	table.AddRow("NAME", "REFERENCE", "TYPE", "SIZE")
	for _, name := range names {
		ref, _ := a.library.Ref(a.configDir, name)
		preview, err := a.session.Preview(filepath.Join(a.library.Dir, name))
		if err != nil {
			fmt.Fprintf(a.errOut, "Warning: %v\n", err)
			continue
		}
		size := "-"
		if preview.Decodable {
			size = fmt.Sprintf("%dx%d", preview.Width, preview.Height)
		}
		table.AddRow(name, ref, preview.MIME, size)
	}
	fmt.Fprintln(a.out, table)
	return nil
}

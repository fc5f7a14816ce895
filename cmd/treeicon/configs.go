package main

import (
	"fmt"
	"strconv"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func (c *cli) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configurations",
		Args:  cobra.NoArgs,
		RunE:  c.runList,
	}
}

func (c *cli) runList(cmd *cobra.Command, args []string) error {
	a, err := c.newApp(cmd)
	if err != nil {
		return err
	}

	names, err := a.store.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(a.out, "No configurations in %s\n", a.configDir)
		return nil
	}

	active, err := a.store.Active()
	if err != nil {
		return err
	}

	table := uitable.New()
	table.AddRow("", "NAME", "FOLDERS")
	for _, name := range names {
		marker := ""
		if name == active {
			marker = "*"
		}
		folders := "invalid"
		if doc, err := a.store.Load(name); err == nil {
			folders = strconv.Itoa(doc.Count())
		} else {
			fmt.Fprintf(a.errOut, "Warning: %v\n", err)
		}
		table.AddRow(marker, name, folders)
	}
	fmt.Fprintln(a.out, table)
	return nil
}

func (c *cli) newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new [name]",
		Short: "Create a configuration and make it active",
		Long:  "Create a configuration holding one default folder and make it active. Prompts for the name when it is not given.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.runNew,
	}
}

func (c *cli) runNew(cmd *cobra.Command, args []string) error {
	a, err := c.newApp(cmd)
	if err != nil {
		return err
	}

	var name string
	if len(args) == 1 {
		name = args[0]
	} else if name, err = a.prompter.String("Configuration name", ""); err != nil {
		return err
	}

	if err := a.session.Create(name, a.settings.DefaultFolder); err != nil {
		return err
	}
	if err := a.library.Ensure(); err != nil {
		fmt.Fprintf(a.errOut, "Warning: %v\n", err)
	}

	fmt.Fprintf(a.out, "Created configuration %q in %s\n", a.session.Name(), a.configDir)
	return nil
}

func (c *cli) newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Make a configuration active",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runUse,
	}
}

func (c *cli) runUse(cmd *cobra.Command, args []string) error {
	a, err := c.newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.session.Open(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Active configuration: %s (%d folders)\n", a.session.Name(), a.session.Document().Count())
	return nil
}

func (c *cli) newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a configuration",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runDelete,
	}

	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func (c *cli) runDelete(cmd *cobra.Command, args []string) error {
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("invalid yes flag: %w", err)
	}

	a, err := c.newApp(cmd)
	if err != nil {
		return err
	}

	if !yes {
		if !a.prompter.Interactive() {
			return fmt.Errorf("refusing to delete %q without confirmation; pass --yes", args[0])
		}
		ok, err := a.prompter.Confirm(fmt.Sprintf("Delete configuration %q?", args[0]), false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Aborted")
			return nil
		}
	}

	if err := a.session.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted configuration %q\n", args[0])
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/errors"
	"github.com/Nitrolaunch/nitroctl/internal/tui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and edit instance and template configs",
}

var configShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a config record",
	Long: `Shows a config record as JSON.

By default the backend-merged view is shown, with every value inherited
from parent templates filled in. Use --editable for only the fields set
on the record itself.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a config interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigEdit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <id> <field> <value>",
	Short: "Set one config field and save",
	Long: `Sets one field on a config record and saves it.

Fields: name, version, type, loader, java, memory, datapack-folder, icon.
Memory takes a single value like 4g or a min:max pair like 2g:4g.
An empty value clears the field so it inherits from parent templates.
With --base-template, drop the id: config set --base-template <field> <value>.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runConfigSet,
}

var (
	configTemplate     bool
	configBaseTemplate bool
	configEditable     bool
)

func init() {
	for _, c := range []*cobra.Command{configShowCmd, configEditCmd, configSetCmd, packagesCmd} {
		c.PersistentFlags().BoolVarP(&configTemplate, "template", "t", false, "Operate on a template instead of an instance")
		c.PersistentFlags().BoolVar(&configBaseTemplate, "base-template", false, "Operate on the base template applied to everything")
	}
	configShowCmd.Flags().BoolVar(&configEditable, "editable", false, "Show only fields set on the record itself")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(packagesCmd)
	rootCmd.AddCommand(configCmd)
}

// configTarget resolves the mode and id for a config subcommand. The base
// template takes no id; everything else requires one.
func configTarget(args []string) (config.Mode, string, error) {
	mode := recordMode(configTemplate, configBaseTemplate)
	if mode == config.ModeBaseTemplate {
		if len(args) > 0 {
			return mode, "", errors.ValidationError("the base template takes no id")
		}
		return mode, "", nil
	}
	if len(args) == 0 {
		return mode, "", errors.ValidationError("an instance or template id is required")
	}
	return mode, args[0], nil
}

// targetAndArgs resolves the mode, id, and remaining positional args for
// subcommands that take trailing arguments after the id. The base template
// takes no id, so its invocations carry one fewer arg.
func targetAndArgs(args []string, trailing int, usage string) (config.Mode, string, []string, error) {
	mode := recordMode(configTemplate, configBaseTemplate)
	if mode == config.ModeBaseTemplate {
		if len(args) != trailing {
			return mode, "", nil, errors.ValidationError("usage: " + usage + " (drop the id with --base-template)")
		}
		return mode, "", args, nil
	}
	if len(args) != trailing+1 {
		return mode, "", nil, errors.ValidationError("usage: " + usage)
	}
	return mode, args[0], args[1:], nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	mode, id, err := configTarget(args)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	b, err := backend(ctx)
	if err != nil {
		return err
	}

	var rec *config.Record
	if configEditable {
		rec, err = b.EditableConfig(ctx, mode, id)
	} else {
		rec, err = b.Config(ctx, mode, id)
	}
	if err != nil {
		return err
	}
	if rec == nil {
		if mode == config.ModeTemplate {
			return errors.TemplateNotFound(id)
		}
		return errors.InstanceNotFound(id)
	}

	return printJSON(cmd.OutOrStdout(), rec)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	mode, id, err := configTarget(args)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	sess, err := openSession(ctx, mode, id)
	if err != nil {
		return err
	}

	saved, err := tui.RunEditor(sess)
	if err != nil {
		return fmt.Errorf("editor error: %w", err)
	}

	if saved {
		logSuccess("Saved config for %s", displayTarget(mode, id))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	mode, id, rest, err := targetAndArgs(args, 2, "config set <id> <field> <value>")
	if err != nil {
		return err
	}
	field, value := rest[0], rest[1]

	ctx, cancel := commandContext()
	defer cancel()

	sess, err := openSession(ctx, mode, id)
	if err != nil {
		return err
	}

	switch field {
	case "name":
		sess.SetName(value)
	case "version":
		sess.SetVersion(value)
	case "type", "side":
		side, err := config.ParseSide(value)
		if err != nil {
			return errors.ValidationError(err.Error())
		}
		sess.SetSide(side)
	case "loader":
		sess.SetLoader(value, config.LocationAll)
	case "java":
		sess.SetJava(value)
	case "memory":
		min, max, ok := splitMemory(value)
		if !ok {
			return errors.ValidationError(fmt.Sprintf("invalid memory %q (use 4g or 2g:4g)", value))
		}
		sess.SetMemory(min, max)
	case "datapack-folder":
		sess.SetDatapackFolder(value)
	case "icon":
		sess.SetIcon(value)
	default:
		return errors.ValidationError(fmt.Sprintf("unknown field %q", field))
	}

	if err := sess.Save(ctx); err != nil {
		return err
	}

	logSuccess("Set %s on %s", field, displayTarget(mode, id))
	return nil
}

// splitMemory parses "4g" or "2g:4g" into a min/max pair.
func splitMemory(value string) (string, string, bool) {
	if value == "" {
		return "", "", true
	}
	for i := 0; i < len(value); i++ {
		if value[i] == ':' {
			return value[:i], value[i+1:], true
		}
	}
	return value, value, true
}

func displayTarget(mode config.Mode, id string) string {
	switch mode {
	case config.ModeBaseTemplate:
		return "the base template"
	case config.ModeTemplate:
		return "template " + id
	default:
		return "instance " + id
	}
}

var packagesCmd = &cobra.Command{
	Use:   "packages [id]",
	Short: "List and change a record's packages",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPackagesList,
}

var packagesAddCmd = &cobra.Command{
	Use:   "add <id> <package>",
	Short: "Add a package to a record",
	Long: `Adds a package to a config record and saves it.

Packages are written as id, repo:id, or id@version. Adding a package that
is already configured replaces the old entry.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPackagesAdd,
}

var packagesRemoveCmd = &cobra.Command{
	Use:   "remove <id> <package>",
	Short: "Remove a package from a record",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPackagesRemove,
}

var packagesSide string

func init() {
	for _, c := range []*cobra.Command{packagesAddCmd, packagesRemoveCmd} {
		c.Flags().StringVar(&packagesSide, "side", "all", "Which side the package applies to: all, client, or server")
	}
	packagesCmd.AddCommand(packagesAddCmd)
	packagesCmd.AddCommand(packagesRemoveCmd)
}

func runPackagesList(cmd *cobra.Command, args []string) error {
	mode, id, err := configTarget(args)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	sess, err := openSession(ctx, mode, id)
	if err != nil {
		return err
	}

	global, client, server := config.SplitPackages(sess.Record())

	if useJSON() {
		return printJSON(cmd.OutOrStdout(), map[string][]config.PackageRef{
			"global": global,
			"client": client,
			"server": server,
		})
	}

	if len(global)+len(client)+len(server) == 0 {
		logInfo("No packages configured on %s.", displayTarget(mode, id))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PACKAGE\tSIDE")
	fmt.Fprintln(w, "-------\t----")
	for _, p := range global {
		fmt.Fprintf(w, "%s\tall\n", p.ID)
	}
	for _, p := range client {
		fmt.Fprintf(w, "%s\tclient\n", p.ID)
	}
	for _, p := range server {
		fmt.Fprintf(w, "%s\tserver\n", p.ID)
	}

	return w.Flush()
}

func runPackagesAdd(cmd *cobra.Command, args []string) error {
	mode, id, rest, err := targetAndArgs(args, 1, "config packages add <id> <package>")
	if err != nil {
		return err
	}

	loc, err := config.ParseLocation(packagesSide)
	if err != nil {
		return errors.ValidationError(err.Error())
	}

	key := config.ParsePackageKey(rest[0])
	if err := config.ValidateID(key.ID); err != nil {
		return errors.ValidationError(err.Error())
	}

	ctx, cancel := commandContext()
	defer cancel()

	sess, err := openSession(ctx, mode, id)
	if err != nil {
		return err
	}

	sess.AddPackage(config.Ref(key.String()), loc)
	if err := sess.Save(ctx); err != nil {
		return err
	}

	logSuccess("Added %s to %s", key.ID, displayTarget(mode, id))
	return nil
}

func runPackagesRemove(cmd *cobra.Command, args []string) error {
	mode, id, rest, err := targetAndArgs(args, 1, "config packages remove <id> <package>")
	if err != nil {
		return err
	}

	loc, err := config.ParseLocation(packagesSide)
	if err != nil {
		return errors.ValidationError(err.Error())
	}

	key := config.ParsePackageKey(rest[0])
	if err := config.ValidateID(key.ID); err != nil {
		return errors.ValidationError(err.Error())
	}

	ctx, cancel := commandContext()
	defer cancel()

	sess, err := openSession(ctx, mode, id)
	if err != nil {
		return err
	}

	sess.RemovePackage(key.ID, loc)
	if err := sess.Save(ctx); err != nil {
		return err
	}

	logSuccess("Removed %s from %s", key.ID, displayTarget(mode, id))
	return nil
}
